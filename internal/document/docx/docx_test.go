package docx

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeExtract_PreservesLines(t *testing.T) {
	cases := map[string]string{
		"single line":      "Service Agreement",
		"several lines":    "Service Agreement\nBetween A and B\n\nSigned: [[sign_here_0]]",
		"markup chars":     "Price < 100 & terms > \"none\"",
		"tabs":             "Clause\t1\tPayment",
		"unicode":          "Überweisung 東京 ✓",
		"leading spaces":   "   indented",
		"trailing newline": "line\n",
		"empty":            "",
	}

	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			data, err := Serialize(text)
			require.NoError(t, err)

			got, err := Extract(data)
			require.NoError(t, err)
			assert.Equal(t, text, got)
		})
	}
}

func TestSerialize_NormalizesCRLF(t *testing.T) {
	data, err := Serialize("a\r\nb")
	require.NoError(t, err)

	got, err := Extract(data)
	require.NoError(t, err)
	assert.Equal(t, "a\nb", got)
}

func TestExtract_RunsTabsAndBreaks(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>
<w:p><w:pPr><w:tabs><w:tab w:val="left" w:pos="720"/></w:tabs></w:pPr><w:r><w:t>Hello</w:t></w:r><w:r><w:tab/><w:t xml:space="preserve"> world</w:t></w:r></w:p>
<w:p><w:r><w:t>one</w:t><w:br/><w:t>two</w:t></w:r></w:p>
</w:body></w:document>`

	got, err := Extract(buildPackage(t, doc))
	require.NoError(t, err)
	assert.Equal(t, "Hello\t world\none\ntwo", got)
}

func TestExtract_Invalid(t *testing.T) {
	_, err := Extract([]byte("not a zip"))
	assert.ErrorIs(t, err, ErrInvalidDocument)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, err = zw.Create("other.xml")
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = Extract(buf.Bytes())
	assert.ErrorIs(t, err, ErrInvalidDocument)
}

func buildPackage(t *testing.T, document string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(documentPart)
	require.NoError(t, err)
	_, err = w.Write([]byte(document))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}
