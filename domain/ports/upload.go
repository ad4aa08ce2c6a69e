package ports

import "io"

// Upload is the narrow view of an uploaded file the library consumes: a
// seekable byte stream plus the client-declared metadata and the MIME type
// the server sniffed from the content. Which MIME is trusted first is
// decided by configuration.
type Upload struct {
	// OriginalName is the client-declared filename including extension.
	OriginalName string

	// ClientMime is the MIME type declared by the client.
	ClientMime string

	// DetectedMime is the MIME type sniffed server-side from the content.
	DetectedMime string

	// Size in bytes as reported by the transport.
	Size int64

	// Content must be positioned at the start; the library seeks it as
	// needed (dimension probing happens before the store write).
	Content io.ReadSeeker
}
