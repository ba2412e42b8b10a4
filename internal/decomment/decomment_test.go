package decomment_test

import (
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/decomment/internal/decomment"
	"bennypowers.dev/decomment/internal/parser/js"
)

var update = flag.Bool("update", false, "update golden files in testdata")

func TestMarkup(t *testing.T) {
	t.Run("removes comments at any depth", func(t *testing.T) {
		result, err := decomment.Markup("<!-- a --><p>hi<!-- b --></p>")
		require.NoError(t, err)
		assert.Equal(t, "<p>hi</p>", result.Content)
		assert.Equal(t, 2, result.RemovedCount)
		assert.True(t, result.Modified)
	})

	t.Run("fragment without comments is unmodified", func(t *testing.T) {
		result, err := decomment.Markup("<p>hi</p>")
		require.NoError(t, err)
		assert.Equal(t, "<p>hi</p>", result.Content)
		assert.Equal(t, 0, result.RemovedCount)
		assert.False(t, result.Modified)
	})

	t.Run("full document keeps its wrappers", func(t *testing.T) {
		result, err := decomment.Markup("<!DOCTYPE html><html><head></head><body><!-- x --><p>hi</p></body></html>")
		require.NoError(t, err)
		assert.Equal(t, "<!DOCTYPE html><html><head></head><body><p>hi</p></body></html>", result.Content)
		assert.Equal(t, 1, result.RemovedCount)
	})

	t.Run("comment-like text in scripts is not a markup comment", func(t *testing.T) {
		result, err := decomment.Markup(`<script>var s = "<!-- x -->";</script>`)
		require.NoError(t, err)
		assert.Equal(t, `<script>var s = "<!-- x -->";</script>`, result.Content)
		assert.Equal(t, 0, result.RemovedCount)
	})
}

func TestMarkupSource(t *testing.T) {
	result, err := decomment.MarkupSource("<!-- a --><p>hi<!-- b --></p>")
	require.NoError(t, err)
	assert.Equal(t, "<p>hi</p>", result.Content)
	assert.Equal(t, 2, result.RemovedCount)

	result, err = decomment.MarkupSource("<ul>\n  <!-- items -->\n  <li>a</li>\n</ul>\n")
	require.NoError(t, err)
	assert.Equal(t, "<ul>\n  <li>a</li>\n</ul>\n", result.Content)

	t.Run("text-only elements", func(t *testing.T) {
		tests := []struct {
			name    string
			input   string
			want    string
			removed int
		}{
			{"textarea", "<textarea><!-- x --></textarea><!-- y -->", "<textarea><!-- x --></textarea>", 1},
			{"title", "<title>a<!-- t --></title>", "<title>a<!-- t --></title>", 0},
			{"markup inside textarea", "<textarea><b><!-- x --></b></textarea>", "<textarea><b><!-- x --></b></textarea>", 0},
			{"svg title", "<svg><title>a<!-- t --></title></svg>", "<svg><title>a</title></svg>", 1},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				result, err := decomment.MarkupSource(tt.input)
				require.NoError(t, err)
				assert.Equal(t, tt.want, result.Content)
				assert.Equal(t, tt.removed, result.RemovedCount)
			})
		}
	})
}

func TestScript(t *testing.T) {
	result, err := decomment.Script("// greet\nconsole.log(1); /* done */")
	require.NoError(t, err)
	assert.Equal(t, "console.log(1);", result.Content)
	assert.Equal(t, 2, result.RemovedCount)
	assert.True(t, result.Modified)

	t.Run("literals survive", func(t *testing.T) {
		src := "const a = '/* no */', b = `// no`, c = /\\/\\/no/;"
		result, err := decomment.Script(src)
		require.NoError(t, err)
		assert.Equal(t, src, result.Content)
		assert.False(t, result.Modified)
	})

	t.Run("syntax error", func(t *testing.T) {
		_, err := decomment.Script("function (")
		require.Error(t, err)
		assert.ErrorIs(t, err, decomment.ErrParse)

		var parseErr *decomment.ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, decomment.GrammarScript, parseErr.Grammar)

		var syntaxErr *js.SyntaxError
		assert.ErrorAs(t, err, &syntaxErr)
	})
}

func TestStyle(t *testing.T) {
	result, err := decomment.Style("/* header */ .a{color:red;} /* trailing */")
	require.NoError(t, err)
	assert.Equal(t, ".a {\n  color: red;\n}", result.Content)
	assert.Equal(t, 2, result.RemovedCount)
	assert.True(t, result.Modified)

	again, err := decomment.Style(result.Content)
	require.NoError(t, err)
	assert.Equal(t, result.Content, again.Content)
	assert.False(t, again.Modified)
	assert.Equal(t, 0, again.RemovedCount)

	t.Run("comment as the only separator", func(t *testing.T) {
		split, err := decomment.Style("a/**/b { }")
		require.NoError(t, err)
		assert.Equal(t, "a/**/b { }", split.Content, "an invalid statement stays one statement")
		assert.False(t, split.Modified)

		split, err = decomment.Style("a/**/b { } .c { color: red; /* x */ }")
		require.NoError(t, err)
		assert.Equal(t, "a/**/b { }\n\n.c {\n  color: red;\n}", split.Content)
		assert.Equal(t, 1, split.RemovedCount)

		property, err := decomment.Style(".a { col/**/or: red }")
		require.NoError(t, err)
		assert.NotContains(t, property.Content, "color", "tokens a comment separated stay separate")
		assert.Contains(t, property.Content, "or: red")
	})
}

func TestProcess(t *testing.T) {
	ctx := context.Background()
	modes := []decomment.Mode{decomment.ModeDOM, decomment.ModeSource}

	for _, mode := range modes {
		t.Run(mode.String(), func(t *testing.T) {
			opts := decomment.Options{Mode: mode}

			t.Run("no comments", func(t *testing.T) {
				result, err := decomment.Process(ctx, "<p>hi</p>", opts)
				require.NoError(t, err)
				assert.Equal(t, "<p>hi</p>", result.Content)
				assert.False(t, result.Modified)
				assert.Zero(t, result.Removed())
			})

			t.Run("textarea content is text", func(t *testing.T) {
				result, err := decomment.Process(ctx, "<textarea><!-- x --><script>// y\n</script></textarea><!-- z -->", opts)
				require.NoError(t, err)
				assert.Equal(t, 1, result.MarkupRemoved)
				assert.Zero(t, result.ScriptRemoved)
				assert.Contains(t, result.Content, "x --")
				assert.Contains(t, result.Content, "// y")
				assert.NotContains(t, result.Content, "z --")
			})

			t.Run("nested script", func(t *testing.T) {
				result, err := decomment.Process(ctx, "<div><section><script>// x\nrun();</script></section></div>", opts)
				require.NoError(t, err)
				assert.Equal(t, "<div><section><script>run();</script></section></div>", result.Content)
				assert.Equal(t, 1, result.ScriptRemoved)
				assert.True(t, result.Modified)
			})

			t.Run("data blocks are left alone", func(t *testing.T) {
				src := `<script type="application/json">{"a": 1 /* no */}</script>`
				result, err := decomment.Process(ctx, src, opts)
				require.NoError(t, err)
				assert.Equal(t, src, result.Content)
				assert.False(t, result.Modified)
				assert.Empty(t, result.Failures)
			})

			t.Run("failed region is recorded and kept", func(t *testing.T) {
				src := "<script>function (</script><style>/* c */ .a { color: red; }</style>"
				result, err := decomment.Process(ctx, src, opts)
				require.NoError(t, err)
				assert.Equal(t, "<script>function (</script><style>.a {\n  color: red;\n}</style>", result.Content)
				assert.Equal(t, 0, result.ScriptRemoved)
				assert.Equal(t, 1, result.StyleRemoved)
				assert.True(t, result.Modified)

				require.Len(t, result.Failures, 1)
				failure := result.Failures[0]
				assert.Equal(t, decomment.GrammarScript, failure.Grammar)
				assert.Equal(t, 0, failure.Index)
				assert.ErrorIs(t, failure, decomment.ErrParse)
			})

			t.Run("skip options", func(t *testing.T) {
				src := "<script>// x\nrun();</script><style>/* y */</style>"
				result, err := decomment.Process(ctx, src, decomment.Options{Mode: mode, SkipScript: true, SkipStyle: true})
				require.NoError(t, err)
				assert.Equal(t, src, result.Content)
				assert.False(t, result.Modified)
			})

			t.Run("idempotent", func(t *testing.T) {
				src, err := os.ReadFile(filepath.Join("testdata", "page.html"))
				require.NoError(t, err)

				first, err := decomment.Process(ctx, string(src), opts)
				require.NoError(t, err)
				assert.True(t, first.Modified)
				assert.Equal(t, 2, first.MarkupRemoved)
				assert.Equal(t, 2, first.ScriptRemoved)
				assert.Equal(t, 2, first.StyleRemoved)

				second, err := decomment.Process(ctx, first.Content, opts)
				require.NoError(t, err)
				assert.Equal(t, first.Content, second.Content)
				assert.False(t, second.Modified)
				assert.Zero(t, second.Removed())
			})
		})
	}

	t.Run("dom mode output", func(t *testing.T) {
		src, err := os.ReadFile(filepath.Join("testdata", "page.html"))
		require.NoError(t, err)

		result, err := decomment.Process(ctx, string(src), decomment.Options{})
		require.NoError(t, err)
		assert.NotContains(t, result.Content, "<!--")
		assert.NotContains(t, result.Content, "// boot")
		assert.NotContains(t, result.Content, "/* theme */")
		assert.Contains(t, result.Content, `"http://example.com/*not*/"`)
		assert.Contains(t, result.Content, `{"a": "/* keep */"}`)
		assert.Contains(t, result.Content, "<p>Hello  world</p>")
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := decomment.Process(cancelled, "<p>hi</p>", decomment.Options{})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestProcessGolden(t *testing.T) {
	cases, err := filepath.Glob(filepath.Join("testdata", "*.html"))
	require.NoError(t, err)
	require.NotEmpty(t, cases)

	for _, path := range cases {
		t.Run(filepath.Base(path), func(t *testing.T) {
			src, err := os.ReadFile(path)
			require.NoError(t, err)

			result, err := decomment.Process(context.Background(), string(src), decomment.Options{Mode: decomment.ModeSource})
			require.NoError(t, err)
			assert.Empty(t, result.Failures)

			golden := path + ".golden"
			if *update {
				require.NoError(t, os.WriteFile(golden, []byte(result.Content), 0o644))
			}

			want, err := os.ReadFile(golden)
			require.NoError(t, err)
			if diff := cmp.Diff(string(want), result.Content); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestErrors(t *testing.T) {
	cause := errors.New("boom")

	err := decomment.NewParseError(decomment.GrammarStyle, cause)
	assert.ErrorIs(t, err, decomment.ErrParse)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, decomment.ErrSerialize)
	assert.Equal(t, "failed to process style content: boom", err.Error())

	err = decomment.NewSerializeError(decomment.GrammarMarkup, cause)
	assert.ErrorIs(t, err, decomment.ErrSerialize)
	assert.ErrorIs(t, err, cause)

	region := &decomment.RegionError{Grammar: decomment.GrammarScript, Index: 2, Err: err}
	assert.ErrorIs(t, region, decomment.ErrSerialize)
	assert.Equal(t, "script region 2 left unmodified: failed to serialize markup content: boom", region.Error())
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		name    string
		want    decomment.Mode
		wantErr bool
	}{
		{"", decomment.ModeDOM, false},
		{"dom", decomment.ModeDOM, false},
		{"Source", decomment.ModeSource, false},
		{"regex", decomment.ModeDOM, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decomment.ParseMode(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
