package decomment

import (
	"bennypowers.dev/decomment/internal/parser/css"
)

// Style removes every comment from a stylesheet at any depth and prints the
// remaining rules in expanded form. Output is normalized, so a stylesheet
// without comments can still come back Modified; a second pass over the
// output is always unmodified.
func Style(text string) (Result, error) {
	p := css.AcquireParser()
	defer css.ReleaseParser(p)

	sheet, err := p.Parse(text)
	if err != nil {
		return Result{}, NewParseError(GrammarStyle, err)
	}

	removed := css.Prune(sheet)

	out, err := css.Stringify(sheet)
	if err != nil {
		return Result{}, NewSerializeError(GrammarStyle, err)
	}

	return Result{
		Content:      out,
		Modified:     out != text,
		RemovedCount: removed,
	}, nil
}
