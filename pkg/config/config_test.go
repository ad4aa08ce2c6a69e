package config

import "testing"

func validConfig() *Config {
	return &Config{
		DefaultDisk: "local",
		Disks: map[string]DiskConfig{
			"local": {Driver: "local", Root: "/tmp/media"},
		},
		FileTypes:     DefaultFileTypes(),
		PathGenerator: "flat",
		URLGenerator:  "public",
		Retry:         RetryConfig{Tries: DefaultTries},
	}
}

func TestValidate(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestValidateRejectsUndefinedDefaultDisk(t *testing.T) {
	cfg := validConfig()
	cfg.DefaultDisk = "s3"

	if err := cfg.Validate(); err == nil {
		t.Fatal("undefined default disk accepted")
	}
}

func TestValidateRejectsMultipleDefaultTransformers(t *testing.T) {
	cfg := validConfig()
	ft := cfg.FileType("image")
	ft.Thumb.Config["default"] = true
	ft.Transformations["shrink"] = TransformerSpec{
		Transformer: "image.resize",
		Config:      TransformerConfig{"default": true, "width": 10},
	}

	if err := cfg.Validate(); err == nil {
		t.Fatal("two default transformers on one type accepted")
	}
}

func TestValidateRejectsUnboundTransformation(t *testing.T) {
	cfg := validConfig()
	cfg.FileType("image").Transformations["broken"] = TransformerSpec{}

	if err := cfg.Validate(); err == nil {
		t.Fatal("transformation without transformer accepted")
	}
}

func TestTransformerSpecQueued(t *testing.T) {
	tests := []struct {
		name string
		spec TransformerSpec
		want bool
	}{
		{"immediate", TransformerSpec{Transformer: "x"}, false},
		{"queued flag", TransformerSpec{Transformer: "x", Queued: true}, true},
		{"named lane implies queued", TransformerSpec{Transformer: "x", Queue: "slow"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.spec.IsQueued(); got != tt.want {
				t.Errorf("IsQueued() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTransformerConfigAccessors(t *testing.T) {
	cfg := TransformerConfig{
		"fit":    true,
		"width":  640,
		"height": float64(480), // decoded JSON numbers arrive as float64
		"ext":    "pdf",
		"size":   map[string]any{"w": 250},
	}

	if !cfg.Bool("fit", false) {
		t.Error("Bool did not read stored value")
	}
	if cfg.Bool("missing", true) != true {
		t.Error("Bool default not applied")
	}
	if got := cfg.Int("width", 0); got != 640 {
		t.Errorf("Int(width) = %d", got)
	}
	if got := cfg.Int("height", 0); got != 480 {
		t.Errorf("Int(height from float64) = %d", got)
	}
	if got := cfg.Int("missing", 7); got != 7 {
		t.Errorf("Int default = %d", got)
	}
	if got := cfg.String("ext", ""); got != "pdf" {
		t.Errorf("String(ext) = %q", got)
	}
	if got := cfg.Sub("size").Int("w", 0); got != 250 {
		t.Errorf("Sub(size).Int(w) = %d", got)
	}
	if cfg.Sub("missing") != nil {
		t.Error("Sub of missing key is not nil")
	}
}

func TestFileTypeLookup(t *testing.T) {
	cfg := validConfig()

	if ft := cfg.FileType("document"); ft == nil || ft.Type != "document" {
		t.Errorf("FileType(document) = %+v", ft)
	}
	if ft := cfg.FileType("spreadsheet"); ft != nil {
		t.Errorf("FileType(spreadsheet) = %+v, want nil", ft)
	}
}
