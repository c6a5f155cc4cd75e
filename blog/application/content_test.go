package application

import (
	"reflect"
	"testing"
)

func TestSplitParagraphs(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{name: "Single paragraph", content: "Hello", want: []string{"Hello"}},
		{name: "Blank line separates", content: "One\n\nTwo", want: []string{"One", "Two"}},
		{name: "Whitespace-only separator line", content: "One\n  \t\nTwo", want: []string{"One", "Two"}},
		{name: "Single newline stays in paragraph", content: "One\nTwo", want: []string{"One\nTwo"}},
		{name: "Leading and trailing blanks dropped", content: "\n\nOne\n\n\n\n", want: []string{"One"}},
		{name: "Empty", content: "", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SplitParagraphs(tt.content); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitParagraphs(%q) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}

func TestFormatInline(t *testing.T) {
	tests := []struct {
		name      string
		paragraph string
		want      string
	}{
		{name: "Plain", paragraph: "plain text", want: "plain text"},
		{name: "Strong", paragraph: "a **bold** move", want: "a <strong>bold</strong> move"},
		{name: "Emphasis", paragraph: "an *italic* word", want: "an <em>italic</em> word"},
		{name: "Strong before emphasis", paragraph: "**b** and *i*", want: "<strong>b</strong> and <em>i</em>"},
		{name: "Line break", paragraph: "one\ntwo", want: "one<br>two"},
		{name: "Markup is escaped", paragraph: "<script>alert(1)</script>", want: "&lt;script&gt;alert(1)&lt;/script&gt;"},
		{name: "Escaped inside strong", paragraph: "**a < b**", want: "<strong>a &lt; b</strong>"},
		{name: "Quotes escaped", paragraph: `say "hi" & 'bye'`, want: "say &#34;hi&#34; &amp; &#39;bye&#39;"},
		{name: "Unbalanced asterisk", paragraph: "2 * 3", want: "2 * 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatInline(tt.paragraph); got != tt.want {
				t.Errorf("FormatInline(%q) = %q, want %q", tt.paragraph, got, tt.want)
			}
		})
	}
}

func TestJoinParagraphs(t *testing.T) {
	got := JoinParagraphs([]string{"one", "two"})
	want := "<p>one</p>\n\n<p>two</p>"
	if got != want {
		t.Errorf("JoinParagraphs() = %q, want %q", got, want)
	}

	if got := JoinParagraphs(nil); got != "" {
		t.Errorf("JoinParagraphs(nil) = %q, want empty", got)
	}
}

func TestSimpleFormatter_Format(t *testing.T) {
	content := "Intro with **bold**.\n\nSecond line one\nline two with *em*."
	want := "<p>Intro with <strong>bold</strong>.</p>\n\n<p>Second line one<br>line two with <em>em</em>.</p>"

	got, err := SimpleFormatter{}.Format(content)
	if err != nil {
		t.Fatalf("Format() returned error: %v", err)
	}
	if string(got) != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}
