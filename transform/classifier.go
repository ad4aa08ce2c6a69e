package transform

import (
	"strings"

	"medialib/pkg/config"
)

// Classifier maps a MIME type (plus an optional extension hint) to a logical
// file type. It iterates the configured definitions in order, so results are
// deterministic for a fixed configuration; "no match" is a normal outcome
// meaning the upload is not allowed, not an error.
type Classifier struct {
	types []config.FileTypeConfig
}

func NewClassifier(types []config.FileTypeConfig) *Classifier {
	return &Classifier{types: types}
}

// Classify returns the logical type for the MIME type. When an extension
// hint is given only that extension's table entry counts; without a hint a
// MIME match under any extension suffices. First matching type wins.
func (c *Classifier) Classify(mimeType, extensionHint string) (string, bool) {
	hint := normalizeExtension(extensionHint)

	for _, ft := range c.types {
		if hint != "" {
			if containsMime(ft.Mimes[hint], mimeType) {
				return ft.Type, true
			}
			continue
		}

		for _, mimes := range ft.Mimes {
			if containsMime(mimes, mimeType) {
				return ft.Type, true
			}
		}
	}

	return "", false
}

func containsMime(mimes []string, mimeType string) bool {
	for _, m := range mimes {
		if m == mimeType {
			return true
		}
	}
	return false
}

func normalizeExtension(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
