// Package editor holds the text-editing operations on a document body and
// the save path that writes an edited body back to storage.
package editor

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"contract-workspace/internal/envelope"
)

// DefaultMarker is inserted when the caller names no signer
var DefaultMarker = envelope.Marker(0)

// InsertPlaceholder inserts marker at caret and returns the new text and
// the caret just after the marker. Out-of-range carets are clamped and a
// caret inside a multi-byte rune moves back to the rune's start.
func InsertPlaceholder(text string, caret int, marker string) (string, int) {
	caret = clampCaret(text, caret)
	return text[:caret] + marker + text[caret:], caret + len(marker)
}

// InsertPlaceholderUTF16 is InsertPlaceholder for carets counted in UTF-16
// code units, the unit of browser selection offsets. The returned caret is
// in the same unit. A caret between the halves of a surrogate pair moves
// back to the pair's start.
func InsertPlaceholderUTF16(text string, caret int, marker string) (string, int) {
	offset := byteOffset(text, caret)
	out, _ := InsertPlaceholder(text, offset, marker)
	return out, utf16Len(text[:offset]) + utf16Len(marker)
}

// RemovePlaceholder removes marker starting at offset. It reports false and
// leaves text unchanged when marker is not found there.
func RemovePlaceholder(text string, offset int, marker string) (string, bool) {
	if offset < 0 || offset+len(marker) > len(text) {
		return text, false
	}
	if !strings.HasPrefix(text[offset:], marker) {
		return text, false
	}
	return text[:offset] + text[offset+len(marker):], true
}

func clampCaret(text string, caret int) int {
	if caret < 0 {
		return 0
	}
	if caret > len(text) {
		return len(text)
	}
	for caret > 0 && caret < len(text) && !utf8.RuneStart(text[caret]) {
		caret--
	}
	return caret
}

// byteOffset converts a UTF-16 code unit offset into text to a byte offset
func byteOffset(text string, units int) int {
	if units <= 0 {
		return 0
	}
	n := 0
	for i, r := range text {
		w := utf16.RuneLen(r)
		if w < 0 {
			w = 1
		}
		if n+w > units {
			return i
		}
		n += w
	}
	return len(text)
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if w := utf16.RuneLen(r); w > 0 {
			n += w
		} else {
			n++
		}
	}
	return n
}
