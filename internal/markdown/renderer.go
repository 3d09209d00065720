package markdown

import (
	"bytes"
	"regexp"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// Render converts page Markdown source into the sanitised HTML fragment
// stored on a Snapshot's Page field. Fenced code blocks are replaced with
// pre-highlighted HTML during the parse-to-HTML fold; the result is then
// passed through a sanitiser whose class allow-list is built from exactly
// the "cbsh-" classes the highlighter used in this document.
func Render(source []byte) (string, error) {
	code := newCodeBlockRenderer()

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			extension.Typographer,
		),
		goldmark.WithRendererOptions(
			goldmarkhtml.WithUnsafe(),
			renderer.WithNodeRenderers(util.Prioritized(code, 100)),
		),
	)

	var buf bytes.Buffer
	if err := md.Convert(source, &buf); err != nil {
		return "", err
	}

	policy := sanitizePolicy(code.emittedClasses())
	return policy.Sanitize(buf.String()), nil
}

// codeBlockRenderer overrides goldmark's default fenced-code-block
// rendering with Highlight's syntax-highlighted output, and accumulates
// the set of classes it emitted across the whole document.
type codeBlockRenderer struct {
	classes map[string]struct{}
}

func newCodeBlockRenderer() *codeBlockRenderer {
	return &codeBlockRenderer{classes: make(map[string]struct{})}
}

func (r *codeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
}

func (r *codeBlockRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	n := node.(*ast.FencedCodeBlock)
	var language string
	if lang := n.Language(source); lang != nil {
		language = string(lang)
	}

	var code bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		code.Write(line.Value(source))
	}

	highlighted := Highlight(code.String(), language)
	for _, c := range highlighted.Classes {
		r.classes[c] = struct{}{}
	}

	w.WriteString("<pre><code>")
	w.WriteString(highlighted.HTML)
	w.WriteString("</code></pre>\n")

	return ast.WalkSkipChildren, nil
}

func (r *codeBlockRenderer) emittedClasses() []string {
	classes := make([]string, 0, len(r.classes))
	for c := range r.classes {
		classes = append(classes, c)
	}
	sort.Strings(classes)
	return classes
}

// sanitizePolicy builds a bluemonday policy permitting the Markdown-sourced
// HTML subset a guide page can produce, plus the explorer's data-rel
// attribute and a span class allow-list matching exactly the classes the
// highlighter emitted for this document.
func sanitizePolicy(classes []string) *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("data-rel").Globally()

	if len(classes) == 0 {
		return p
	}

	alternatives := make([]string, len(classes))
	for i, c := range classes {
		alternatives[i] = regexp.QuoteMeta(c)
	}
	alt := strings.Join(alternatives, "|")
	pattern := regexp.MustCompile(`^(?:` + alt + `)(?: (?:` + alt + `))*$`)
	p.AllowAttrs("class").Matching(pattern).OnElements("span")

	return p
}
