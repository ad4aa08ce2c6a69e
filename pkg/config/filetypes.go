package config

// DefaultFileTypes returns the stock type definitions. Hosts usually start
// from these and adjust transformer tables and groups to taste. The slice
// order is the classifier's iteration order.
func DefaultFileTypes() []FileTypeConfig {
	return []FileTypeConfig{
		{
			Type: "image",
			Mimes: map[string][]string{
				"jpg":  {"image/jpeg", "image/pjpeg"},
				"jpeg": {"image/jpeg", "image/pjpeg"},
				"png":  {"image/png"},
				"gif":  {"image/gif"},
				"webp": {"image/webp"},
				"bmp":  {"image/bmp", "image/x-ms-bmp"},
				"tiff": {"image/tiff"},
			},
			Thumb: &TransformerSpec{
				Transformer: "image.resize",
				Queued:      false,
				Config: TransformerConfig{
					"fit":  true,
					"size": map[string]any{"w": 250, "h": 250},
				},
			},
			Transformations:      map[string]TransformerSpec{},
			TransformationGroups: map[string][]string{"default": {}},
			Defaults:             map[string]string{},
		},
		{
			Type: "video",
			Mimes: map[string][]string{
				"mp4":  {"video/mp4"},
				"mov":  {"video/quicktime"},
				"avi":  {"video/x-msvideo"},
				"webm": {"video/webm"},
				"mkv":  {"video/x-matroska"},
			},
			Transformations:      map[string]TransformerSpec{},
			TransformationGroups: map[string][]string{"default": {}},
			Defaults:             map[string]string{},
		},
		{
			Type: "document",
			Mimes: map[string][]string{
				"pdf":  {"application/pdf"},
				"doc":  {"application/msword"},
				"docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
				"xls":  {"application/vnd.ms-excel"},
				"xlsx": {"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
				"ppt":  {"application/vnd.ms-powerpoint"},
				"pptx": {"application/vnd.openxmlformats-officedocument.presentationml.presentation"},
				"txt":  {"text/plain"},
				"csv":  {"text/csv", "application/csv"},
			},
			Transformations: map[string]TransformerSpec{
				"preview": {
					Transformer: "document.convert",
					Queued:      true,
					Config: TransformerConfig{
						"extension": "pdf",
					},
				},
			},
			TransformationGroups: map[string][]string{"default": {"preview"}},
			Defaults:             map[string]string{},
		},
		{
			Type: "audio",
			Mimes: map[string][]string{
				"mp3":  {"audio/mpeg", "audio/mp3"},
				"wav":  {"audio/wav", "audio/x-wav"},
				"ogg":  {"audio/ogg"},
				"m4a":  {"audio/mp4", "audio/x-m4a"},
				"flac": {"audio/flac"},
			},
			Transformations:      map[string]TransformerSpec{},
			TransformationGroups: map[string][]string{"default": {}},
			Defaults:             map[string]string{},
		},
	}
}
