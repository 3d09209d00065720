package markdown

import (
	"strings"
	"testing"
)

func TestRenderBasicHeading(t *testing.T) {
	got, err := Render([]byte("# Introduction\n"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "<h1>Introduction</h1>") {
		t.Errorf("expected rendered heading, got %q", got)
	}
}

func TestRenderFencedCodeBlockIsHighlightedAndAllowListed(t *testing.T) {
	got, err := Render([]byte("```go\npackage main\n```\n"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "<pre><code>") {
		t.Fatalf("expected a highlighted code block, got %q", got)
	}
	if !strings.Contains(got, `class="cbsh-`) {
		t.Errorf("expected cbsh-prefixed span classes to survive sanitisation, got %q", got)
	}
}

func TestRenderRejectsScriptInjection(t *testing.T) {
	got, err := Render([]byte(`<script>alert(1)</script>`))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(got, "<script") {
		t.Errorf("sanitiser should strip script tags, got %q", got)
	}
}

func TestRenderRejectsEventHandlerAttributes(t *testing.T) {
	got, err := Render([]byte(`<img src="x" onerror="alert(1)">`))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(got, "onerror") {
		t.Errorf("sanitiser should strip event handler attributes, got %q", got)
	}
}

func TestRenderSanitisationIsIdempotent(t *testing.T) {
	first, err := Render([]byte("# Title\n\n<script>evil()</script>\n\nSome *text* with `code`.\n"))
	if err != nil {
		t.Fatal(err)
	}

	second, err := Render([]byte(first))
	if err != nil {
		t.Fatal(err)
	}

	if strings.Contains(second, "<script") || strings.Contains(second, "onerror") {
		t.Errorf("re-rendering already-sanitised HTML must not resurrect script-capable constructs, got %q", second)
	}
}

func TestRenderGFMExtensions(t *testing.T) {
	got, err := Render([]byte("~~gone~~\n\n- [x] done\n- [ ] todo\n"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "<del>gone</del>") {
		t.Errorf("expected strikethrough extension to render <del>, got %q", got)
	}
	if !strings.Contains(got, `type="checkbox"`) {
		t.Errorf("expected tasklist extension to render checkboxes, got %q", got)
	}
}

func TestRenderUnknownLanguageFallsBackWithoutError(t *testing.T) {
	got, err := Render([]byte("```not-a-real-language\nsome text\n```\n"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "some text") {
		t.Errorf("expected fallback lexer to preserve code text, got %q", got)
	}
}
