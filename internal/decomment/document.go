package decomment

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	htmlparser "bennypowers.dev/decomment/internal/parser/html"
)

// Options control document processing. The zero value removes comments from
// markup, scripts and styles in DOM mode.
type Options struct {
	Mode       Mode
	SkipScript bool
	SkipStyle  bool
}

// regionJob is one embedded region handed to a sub-remover
type regionJob struct {
	grammar string
	index   int
	content string
}

type regionOutcome struct {
	result Result
	err    error
}

// Process removes comments from an HTML document and from the JavaScript and
// CSS embedded in its <script> and <style> elements.
//
// Markup comments are removed first, then the remaining document is searched
// for script and style regions at any depth. Regions are independent and are
// processed concurrently; a region whose sub-remover fails keeps its original
// text and is reported in Failures without failing the document. Only scripts
// whose type attribute names JavaScript are processed.
//
// Failure of markup parsing or serialization fails the whole document, as
// does cancellation of ctx.
func Process(ctx context.Context, text string, opts Options) (*DocumentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	markup, err := removeMarkup(text, opts.Mode)
	if err != nil {
		return nil, err
	}

	result := &DocumentResult{
		Content:       markup.Content,
		MarkupRemoved: markup.RemovedCount,
		Modified:      markup.Modified,
	}

	if opts.SkipScript && opts.SkipStyle {
		return result, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if opts.Mode == ModeSource {
		err = processSourceRegions(ctx, result, opts)
	} else {
		err = processDOMRegions(ctx, result, opts)
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func processDOMRegions(ctx context.Context, result *DocumentResult, opts Options) error {
	doc, err := parseMarkup(result.Content)
	if err != nil {
		return NewParseError(GrammarMarkup, err)
	}

	var elements []*html.Node
	var jobs []regionJob
	scripts, styles := 0, 0
	walkElements(doc, func(n *html.Node) {
		switch n.DataAtom {
		case atom.Script:
			if opts.SkipScript || !htmlparser.IsJavaScriptType(attribute(n, "type")) {
				return
			}
			content := textContent(n)
			if strings.TrimSpace(content) == "" {
				return
			}
			elements = append(elements, n)
			jobs = append(jobs, regionJob{grammar: GrammarScript, index: scripts, content: content})
			scripts++
		case atom.Style:
			if opts.SkipStyle {
				return
			}
			content := textContent(n)
			if strings.TrimSpace(content) == "" {
				return
			}
			elements = append(elements, n)
			jobs = append(jobs, regionJob{grammar: GrammarStyle, index: styles, content: content})
			styles++
		}
	})

	if len(jobs) == 0 {
		return nil
	}

	outcomes, err := runRegions(ctx, jobs)
	if err != nil {
		return err
	}

	rewritten := false
	for i, outcome := range outcomes {
		if !result.apply(jobs[i], outcome) {
			continue
		}
		setTextContent(elements[i], outcome.result.Content)
		rewritten = true
	}
	if !rewritten {
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	out, err := renderMarkup(doc)
	if err != nil {
		return NewSerializeError(GrammarMarkup, err)
	}
	result.Content = out
	result.Modified = true
	return nil
}

func processSourceRegions(ctx context.Context, result *DocumentResult, opts Options) error {
	p := htmlparser.AcquireParser()
	regions, err := p.ParseRegions(result.Content)
	htmlparser.ReleaseParser(p)
	if err != nil {
		return NewParseError(GrammarMarkup, err)
	}

	var selected []htmlparser.Region
	var jobs []regionJob
	scripts, styles := 0, 0
	for _, region := range regions {
		if strings.TrimSpace(region.Content) == "" {
			continue
		}
		switch region.Kind {
		case htmlparser.ScriptTag:
			if opts.SkipScript || !htmlparser.IsJavaScriptType(region.Type) {
				continue
			}
			jobs = append(jobs, regionJob{grammar: GrammarScript, index: scripts, content: region.Content})
			scripts++
		case htmlparser.StyleTag:
			if opts.SkipStyle {
				continue
			}
			jobs = append(jobs, regionJob{grammar: GrammarStyle, index: styles, content: region.Content})
			styles++
		default:
			continue
		}
		selected = append(selected, region)
	}

	if len(jobs) == 0 {
		return nil
	}

	outcomes, err := runRegions(ctx, jobs)
	if err != nil {
		return err
	}

	var b strings.Builder
	last := uint(0)
	rewritten := false
	for i, outcome := range outcomes {
		if !result.apply(jobs[i], outcome) {
			continue
		}
		region := selected[i]
		b.WriteString(result.Content[last:region.StartByte])
		b.WriteString(outcome.result.Content)
		last = region.EndByte
		rewritten = true
	}
	if !rewritten {
		return nil
	}
	b.WriteString(result.Content[last:])

	result.Content = b.String()
	result.Modified = true
	return nil
}

// runRegions runs each job's sub-remover on its own goroutine. Every goroutine
// writes only its own outcome slot.
func runRegions(ctx context.Context, jobs []regionJob) ([]regionOutcome, error) {
	outcomes := make([]regionOutcome, len(jobs))

	var wg sync.WaitGroup
	for i, job := range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				outcomes[i].err = err
				return
			}
			switch job.grammar {
			case GrammarScript:
				outcomes[i].result, outcomes[i].err = Script(job.content)
			case GrammarStyle:
				outcomes[i].result, outcomes[i].err = styleRegion(job.content)
			}
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// styleRegion runs Style on a region's content while keeping the blank
// space around it, and indents the printed rules to match the first line.
func styleRegion(content string) (Result, error) {
	inner := strings.TrimSpace(content)
	lead := content[:strings.Index(content, inner)]
	trail := content[len(lead)+len(inner):]

	result, err := Style(inner)
	if err != nil {
		return Result{}, err
	}

	out := result.Content
	if i := strings.LastIndexByte(lead, '\n'); i >= 0 {
		out = indentLines(out, lead[i+1:])
	}

	result.Content = lead + out + trail
	result.Modified = result.Content != content
	return result, nil
}

// indentLines prefixes every non-empty line after the first with indent
func indentLines(text, indent string) string {
	if indent == "" {
		return text
	}
	lines := strings.Split(text, "\n")
	for i := 1; i < len(lines); i++ {
		if lines[i] != "" {
			lines[i] = indent + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

// apply folds one region outcome into the result and reports whether the
// region's text should be replaced.
func (r *DocumentResult) apply(job regionJob, outcome regionOutcome) bool {
	if outcome.err != nil {
		r.Failures = append(r.Failures, &RegionError{
			Grammar: job.grammar,
			Index:   job.index,
			Err:     outcome.err,
		})
		return false
	}
	if !outcome.result.Modified {
		return false
	}
	switch job.grammar {
	case GrammarScript:
		r.ScriptRemoved += outcome.result.RemovedCount
	case GrammarStyle:
		r.StyleRemoved += outcome.result.RemovedCount
	}
	return true
}

func walkElements(n *html.Node, visit func(*html.Node)) {
	if n.Type == html.ElementNode {
		visit(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkElements(c, visit)
	}
}

func attribute(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Namespace == "" && strings.EqualFold(attr.Key, key) {
			return attr.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

func setTextContent(n *html.Node, text string) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}
