package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		declared string
		want     Format
	}{
		{"", FormatEditableText},
		{"docx", FormatEditableText},
		{"DOCX", FormatEditableText},
		{"application/pdf", FormatPaginated},
		{"Application/PDF; charset=binary", FormatPaginated},
		{MediaTypeDOCX, FormatEditableText},
		{MediaTypeDOCX + "; name=contract.docx", FormatEditableText},
		{"image/png", FormatUnsupported},
		{"text/plain", FormatUnsupported},
	}

	for _, tc := range cases {
		t.Run(tc.declared, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.declared))
		})
	}
}

func TestNormalizeMediaType(t *testing.T) {
	assert.Equal(t, MediaTypeDOCX, NormalizeMediaType(""))
	assert.Equal(t, MediaTypeDOCX, NormalizeMediaType("  docx "))
	assert.Equal(t, MediaTypePDF, NormalizeMediaType("application/pdf;charset=utf-8"))
	assert.Equal(t, "image/png", NormalizeMediaType("IMAGE/PNG"))
}
