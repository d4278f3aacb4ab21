package render

import (
	"strings"
	"testing"
)

func TestMarkdown(t *testing.T) {
	html, err := Markdown("Sesión con **énfasis** y _cursiva_")
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	if !strings.Contains(html, "<strong>énfasis</strong>") {
		t.Errorf("html = %q, want strong tag", html)
	}
	if !strings.Contains(html, "<em>cursiva</em>") {
		t.Errorf("html = %q, want em tag", html)
	}
}

func TestMarkdown_StripsScripts(t *testing.T) {
	html, err := Markdown(`Hola <script>alert("x")</script> mundo`)
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	if strings.Contains(html, "<script") {
		t.Errorf("script tag survived sanitization: %q", html)
	}
	if !strings.Contains(html, "Hola") || !strings.Contains(html, "mundo") {
		t.Errorf("text content lost: %q", html)
	}
}

func TestSanitize(t *testing.T) {
	got := Sanitize(`<a href="javascript:alert(1)">x</a><b>ok</b>`)
	if strings.Contains(got, "javascript:") {
		t.Errorf("javascript href survived: %q", got)
	}
	if !strings.Contains(got, "<b>ok</b>") {
		t.Errorf("safe markup stripped: %q", got)
	}
}
