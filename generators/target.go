package generators

import "medialib/domain/models"

// target is the (name, extension, mime) triple a URL points at: the raw
// upload, a named transformation, or the synthetic full-preview substitute.
type target struct {
	name      string
	extension string
	mimeType  string
}

// resolveTarget picks the addressed artifact. When no transformation is
// requested but a full preview is wanted for a non-image file, the derived
// "preview" jpg is addressed instead of the raw upload, so clients never get
// a link to bytes they cannot render.
func resolveTarget(file *models.File, transformation *models.Transformation, fullPreview bool) target {
	if transformation != nil {
		return target{
			name:      transformation.Name,
			extension: transformation.Extension,
			mimeType:  transformation.MimeType,
		}
	}

	if fullPreview && !file.IsImage() {
		return target{name: "preview", extension: "jpg", mimeType: "image/jpeg"}
	}

	return target{name: "upload", extension: file.Extension, mimeType: file.MimeType}
}
