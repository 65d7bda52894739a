package document

import (
	"mime"
	"strings"
)

// Format is the display mode chosen for fetched content
type Format string

const (
	FormatPaginated    Format = "paginated-document"
	FormatEditableText Format = "editable-text"
	FormatUnsupported  Format = "unsupported"
)

const (
	MediaTypePDF  = "application/pdf"
	MediaTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

	// legacyDOCXToken is the bare type some stored objects were tagged with
	legacyDOCXToken = "docx"
)

// NormalizeMediaType strips parameters and lowercases the declared type.
// An empty declaration or the legacy token is read as DOCX.
//
// This fallback also shows genuinely untyped objects as editable text. It is
// kept for compatibility with existing stored objects; a failed extraction
// still degrades the rendering to unsupported.
func NormalizeMediaType(declared string) string {
	declared = strings.TrimSpace(declared)
	mediaType, _, err := mime.ParseMediaType(declared)
	if err != nil {
		mediaType, _, _ = strings.Cut(declared, ";")
	}
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))

	if mediaType == "" || mediaType == legacyDOCXToken {
		return MediaTypeDOCX
	}
	return mediaType
}

// Classify maps a declared content type to exactly one Format
func Classify(declared string) Format {
	switch NormalizeMediaType(declared) {
	case MediaTypePDF:
		return FormatPaginated
	case MediaTypeDOCX:
		return FormatEditableText
	default:
		return FormatUnsupported
	}
}
