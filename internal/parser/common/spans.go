package common

import (
	"bytes"
	"slices"
)

// Span is a half-open byte range [Start, End) within a source buffer
type Span struct {
	Start uint
	End   uint
}

// Len returns the number of bytes covered by the span
func (s Span) Len() uint {
	return s.End - s.Start
}

// CutStyle controls what Cut leaves behind when a span sits between two pieces
// of content on the same line
type CutStyle int

const (
	// CutJoin leaves a single space only where the span was surrounded by blanks.
	// Suitable for markup, where adjacent text simply concatenates.
	CutJoin CutStyle = iota
	// CutSeparate always leaves a separator where the neighbours could fuse into
	// a different token, and a newline where the span itself crossed lines.
	// Suitable for script source, where a block comment acts as whitespace.
	CutSeparate
)

// Cut returns src with every span removed.
//
// A span that is alone on its line takes the whole line (including the line
// break) with it. A span that ends a line takes the blanks before it. A span
// that starts a line keeps the indentation before it. Overlapping spans are
// ignored after the first.
func Cut(src []byte, spans []Span, style CutStyle) string {
	if len(spans) == 0 {
		return string(src)
	}

	sorted := slices.Clone(spans)
	slices.SortFunc(sorted, func(a, b Span) int {
		return int(a.Start) - int(b.Start)
	})

	out := make([]byte, 0, len(src))
	pos := 0
	for _, span := range sorted {
		start, end := int(span.Start), int(span.End)
		if start < pos || end > len(src) || start > end {
			continue
		}

		out = append(out, src[pos:start]...)

		after := end
		for after < len(src) && isBlank(src[after]) {
			after++
		}

		trimmed := bytes.TrimRight(out, " \t")
		hadBlankBefore := len(trimmed) < len(out)
		lineStart := len(trimmed) == 0 || trimmed[len(trimmed)-1] == '\n'
		lineEnd := after == len(src) || src[after] == '\n' ||
			(src[after] == '\r' && after+1 < len(src) && src[after+1] == '\n')

		switch {
		case lineStart && lineEnd:
			out = trimmed
			pos = skipLineBreak(src, after)
		case lineEnd:
			out = trimmed
			pos = after
		case lineStart:
			pos = after
		default:
			out = trimmed
			if sep := separator(style, src, span, trimmed, after, hadBlankBefore || after > end); sep != "" {
				out = append(out, sep...)
			}
			pos = after
		}
	}

	out = append(out, src[pos:]...)
	return string(out)
}

// separator decides what replaces an inline span
func separator(style CutStyle, src []byte, span Span, before []byte, after int, hadBlank bool) string {
	switch style {
	case CutSeparate:
		if bytes.ContainsAny(src[span.Start:span.End], "\r\n") {
			return "\n"
		}
		if hadBlank {
			return " "
		}
		prev := before[len(before)-1]
		next := src[after]
		if isPunctuator(prev) || isPunctuator(next) {
			return ""
		}
		return " "
	default:
		if hadBlank {
			return " "
		}
		return ""
	}
}

func skipLineBreak(src []byte, i int) int {
	if i < len(src) && src[i] == '\r' {
		i++
	}
	if i < len(src) && src[i] == '\n' {
		i++
	}
	return i
}

func isBlank(b byte) bool {
	return b == ' ' || b == '\t'
}

// isPunctuator reports bytes that never combine with a neighbour into a longer token
func isPunctuator(b byte) bool {
	switch b {
	case '(', ')', '[', ']', '{', '}', ',', ';':
		return true
	}
	return false
}
