package common_test

import (
	"strings"
	"testing"

	"bennypowers.dev/decomment/internal/parser/common"
	"github.com/stretchr/testify/assert"
)

// spansOf returns spans for every occurrence of each marker in src
func spansOf(src string, markers ...string) []common.Span {
	var spans []common.Span
	for _, m := range markers {
		offset := 0
		for {
			i := strings.Index(src[offset:], m)
			if i < 0 {
				break
			}
			start := offset + i
			spans = append(spans, common.Span{Start: uint(start), End: uint(start + len(m))})
			offset = start + len(m)
		}
	}
	return spans
}

func TestCut(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		markers []string
		style   common.CutStyle
		want    string
	}{
		{
			name:  "no spans",
			src:   "a\nb",
			style: common.CutSeparate,
			want:  "a\nb",
		},
		{
			name:    "whole line",
			src:     "a;\n  // note\nb;\n",
			markers: []string{"// note"},
			style:   common.CutSeparate,
			want:    "a;\nb;\n",
		},
		{
			name:    "trailing",
			src:     "a; // note\nb;",
			markers: []string{"// note"},
			style:   common.CutSeparate,
			want:    "a;\nb;",
		},
		{
			name:    "leading keeps indentation",
			src:     "  /* x */ a;",
			markers: []string{"/* x */"},
			style:   common.CutSeparate,
			want:    "  a;",
		},
		{
			name:    "inline between identifiers",
			src:     "a/**/b",
			markers: []string{"/**/"},
			style:   common.CutSeparate,
			want:    "a b",
		},
		{
			name:    "inline next to punctuator",
			src:     "f(/* x */1)",
			markers: []string{"/* x */"},
			style:   common.CutSeparate,
			want:    "f(1)",
		},
		{
			name:    "inline surrounded by blanks",
			src:     "a /* x */ + b",
			markers: []string{"/* x */"},
			style:   common.CutSeparate,
			want:    "a + b",
		},
		{
			name:    "multi-line inline keeps a line break",
			src:     "a /*\n*/ b",
			markers: []string{"/*\n*/"},
			style:   common.CutSeparate,
			want:    "a\nb",
		},
		{
			name:    "two comments on one line",
			src:     "x;\n  /*a*/ /*b*/\ny;",
			markers: []string{"/*a*/", "/*b*/"},
			style:   common.CutSeparate,
			want:    "x;\ny;",
		},
		{
			name:    "crlf line",
			src:     "a;\r\n// x\r\nb;",
			markers: []string{"// x"},
			style:   common.CutSeparate,
			want:    "a;\r\nb;",
		},
		{
			name:    "markup join",
			src:     "<p>hi<!-- b --></p>",
			markers: []string{"<!-- b -->"},
			style:   common.CutJoin,
			want:    "<p>hi</p>",
		},
		{
			name:    "markup join keeps one blank",
			src:     "<p>a <!-- b --> c</p>",
			markers: []string{"<!-- b -->"},
			style:   common.CutJoin,
			want:    "<p>a c</p>",
		},
		{
			name:    "only a comment",
			src:     "<!-- a -->",
			markers: []string{"<!-- a -->"},
			style:   common.CutJoin,
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := common.Cut([]byte(tt.src), spansOf(tt.src, tt.markers...), tt.style)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCutIgnoresOverlaps(t *testing.T) {
	src := []byte("abcdef")
	got := common.Cut(src, []common.Span{{Start: 3, End: 5}, {Start: 1, End: 4}}, common.CutJoin)
	assert.Equal(t, "aef", got)
}

func TestSpanLen(t *testing.T) {
	assert.Equal(t, uint(4), common.Span{Start: 2, End: 6}.Len())
}
