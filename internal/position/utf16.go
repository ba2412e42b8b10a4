// Package position converts between LSP positions, counted in UTF-16 code
// units, and byte offsets into UTF-8 text.
package position

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// UTF16ToByteOffset converts a UTF-16 code unit column in line to a byte
// offset. Columns past the end clamp to len(line); a column inside a
// surrogate pair clamps to the start of its rune. Invalid UTF-8 bytes count
// as one unit each.
func UTF16ToByteOffset(line string, col int) int {
	units, offset := 0, 0
	for offset < len(line) && units < col {
		r, size := utf8.DecodeRuneInString(line[offset:])
		n := 1
		if r != utf8.RuneError || size > 1 {
			n = utf16.RuneLen(r)
		}
		if units+n > col {
			break
		}
		units += n
		offset += size
	}
	return offset
}

// StringLengthUTF16 returns the length of s in UTF-16 code units
func StringLengthUTF16(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// End returns the position just past the last character of content
func End(content string) (line, character uint32) {
	last := strings.LastIndexByte(content, '\n')
	line = uint32(strings.Count(content, "\n"))
	return line, uint32(StringLengthUTF16(content[last+1:]))
}
