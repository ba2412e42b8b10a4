package js_test

import (
	"errors"
	"testing"

	"bennypowers.dev/decomment/internal/parser/js"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrip(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		want  string
		count int
	}{
		{
			name:  "line and block comments",
			src:   "// greet\nconsole.log(1); /* done */",
			want:  "console.log(1);",
			count: 2,
		},
		{
			name:  "comment-like string literal",
			src:   `const s = "// not a comment";`,
			want:  `const s = "// not a comment";`,
			count: 0,
		},
		{
			name:  "comment-like template literal",
			src:   "const t = `/* kept */ ${x} // kept`;",
			want:  "const t = `/* kept */ ${x} // kept`;",
			count: 0,
		},
		{
			name:  "regex literal",
			src:   `const re = /\/\/ x/;`,
			want:  `const re = /\/\/ x/;`,
			count: 0,
		},
		{
			name:  "doc comment above function",
			src:   "/**\n * Adds.\n */\nexport function add(a, b) {\n  return a + b; // sum\n}\n",
			want:  "export function add(a, b) {\n  return a + b;\n}\n",
			count: 2,
		},
		{
			name:  "inline block comment between arguments",
			src:   "f(a, /* b */ c);",
			want:  "f(a, c);",
			count: 1,
		},
		{
			name:  "empty source",
			src:   "",
			want:  "",
			count: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := js.AcquireParser()
			defer js.ReleaseParser(parser)

			got, count, err := parser.Strip(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.count, count)
		})
	}
}

func TestStripIsIdempotent(t *testing.T) {
	parser := js.AcquireParser()
	defer js.ReleaseParser(parser)

	first, count, err := parser.Strip("let a = 1; // one\n/* two */\nlet b = a /* three */ + 1;\n")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	second, count, err := parser.Strip(first)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, first, second)
}

func TestParseReportsComments(t *testing.T) {
	parser := js.AcquireParser()
	defer js.ReleaseParser(parser)

	var comments []js.Comment
	err := parser.Parse("a();\n  /* x */ b(); // y", func(c js.Comment) {
		comments = append(comments, c)
	})
	require.NoError(t, err)
	require.Len(t, comments, 2)

	assert.Equal(t, uint(1), comments[0].Line)
	assert.Equal(t, uint(2), comments[0].Column)
	assert.True(t, comments[0].Block)

	assert.False(t, comments[1].Block)
	assert.Less(t, comments[0].Span.Start, comments[1].Span.Start, "comments arrive in source order")
}

func TestParseSyntaxError(t *testing.T) {
	parser := js.AcquireParser()
	defer js.ReleaseParser(parser)

	_, _, err := parser.Strip("function (")
	require.Error(t, err)

	var syntaxErr *js.SyntaxError
	require.True(t, errors.As(err, &syntaxErr))
	assert.Equal(t, uint(1), syntaxErr.Line)
	assert.Contains(t, syntaxErr.Error(), "syntax error at")
}
