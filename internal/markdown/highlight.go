// Package markdown renders page Markdown into the sanitised HTML embedded
// in every VFS Snapshot. Highlighting and sanitisation are its own
// sub-concerns, kept in this file and in renderer.go's sanitizePolicy
// respectively.
package markdown

import (
	"html"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// classPrefix is the fixed prefix every highlighter-emitted CSS class
// carries, so the sanitiser can recognise (and, per document, allow-list)
// exactly the classes this package produces.
const classPrefix = "cbsh-"

// Highlighted is one fenced code block rendered to an HTML fragment, plus
// the full set of "cbsh-" classes used within it.
type Highlighted struct {
	HTML    string
	Classes []string
}

// Highlight tokenises code as language and renders it to an HTML fragment
// wrapping each token in a <span> classed with a cbsh-prefixed encoding of
// its syntax scope atoms (category, sub-category, and exact token type).
// Unknown languages fall back to a plain-text grammar. Tokens are split
// per physical line first, so the fragment preserves the source's
// newline structure token-by-token rather than as one opaque blob.
func Highlight(code, language string) Highlighted {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		iterator, _ = lexers.Fallback.Tokenise(nil, code)
	}

	lines := chroma.SplitTokensIntoLines(iterator.Tokens())

	var b strings.Builder
	classSet := make(map[string]struct{})
	// Each line's final token already carries its trailing "\n", so lines
	// are written back to back without an added separator.
	for _, line := range lines {
		for _, tok := range line {
			if tok.Value == "" {
				continue
			}
			classes := scopeClasses(tok.Type)
			for _, c := range classes {
				classSet[c] = struct{}{}
			}
			b.WriteString(`<span class="`)
			b.WriteString(strings.Join(classes, " "))
			b.WriteString(`">`)
			b.WriteString(html.EscapeString(tok.Value))
			b.WriteString(`</span>`)
		}
	}

	classes := make([]string, 0, len(classSet))
	for c := range classSet {
		classes = append(classes, c)
	}
	sort.Strings(classes)

	return Highlighted{HTML: b.String(), Classes: classes}
}

// scopeClasses renders tt's category, sub-category, and exact type as
// distinct "cbsh-"-prefixed, kebab-case class names, de-duplicated and in
// general-to-specific order, e.g. KeywordDeclaration yields
// ["cbsh-keyword", "cbsh-keyword-declaration"].
func scopeClasses(tt chroma.TokenType) []string {
	seen := make(map[chroma.TokenType]struct{}, 3)
	classes := make([]string, 0, 3)
	for _, t := range [...]chroma.TokenType{tt.Category(), tt.SubCategory(), tt} {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		classes = append(classes, classPrefix+kebabCase(t.String()))
	}
	return classes
}

// kebabCase lowercases a chroma TokenType's CamelCase name and inserts a
// hyphen before each interior capital, e.g. "KeywordDeclaration" ->
// "keyword-declaration".
func kebabCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r - 'A' + 'a')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
