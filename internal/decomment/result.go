package decomment

// Result is the outcome of removing comments from one grammar's text
type Result struct {
	Content string
	// Modified is true when Content differs from the input text. A serializer
	// that normalizes markup can report true with RemovedCount == 0.
	Modified     bool
	RemovedCount int
}

// DocumentResult is the outcome of processing a whole document
type DocumentResult struct {
	Content       string
	MarkupRemoved int
	ScriptRemoved int
	StyleRemoved  int
	Modified      bool
	// Failures lists regions whose sub-remover failed; those regions keep
	// their original text
	Failures []*RegionError
}

// Removed returns the total number of comments removed across grammars
func (r *DocumentResult) Removed() int {
	return r.MarkupRemoved + r.ScriptRemoved + r.StyleRemoved
}
