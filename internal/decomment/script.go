package decomment

import (
	"bennypowers.dev/decomment/internal/parser/js"
)

// Script removes every line and block comment from JavaScript source.
// String, template and regular expression literals are never altered. Source
// that does not parse as JavaScript fails with a ParseError and produces no
// output.
func Script(text string) (Result, error) {
	p := js.AcquireParser()
	defer js.ReleaseParser(p)

	out, removed, err := p.Strip(text)
	if err != nil {
		return Result{}, NewParseError(GrammarScript, err)
	}

	return Result{
		Content:      out,
		Modified:     out != text,
		RemovedCount: removed,
	}, nil
}
