package application

import (
	"html"
	"html/template"
	"regexp"
	"strings"
)

var (
	paragraphBreak = regexp.MustCompile(`\n\s*\n`)
	strongSpan     = regexp.MustCompile(`\*\*(.*?)\*\*`)
	emphasisSpan   = regexp.MustCompile(`\*(.*?)\*`)
)

// ContentFormatter turns stored post content into body markup.
type ContentFormatter interface {
	Format(content string) (template.HTML, error)
}

// SimpleFormatter implements the lightweight format the admin editor produces:
// blank-line separated paragraphs, **strong**, *emphasis* and hard line breaks.
type SimpleFormatter struct{}

var _ ContentFormatter = SimpleFormatter{}

func (SimpleFormatter) Format(content string) (template.HTML, error) {
	paragraphs := SplitParagraphs(content)
	formatted := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		formatted = append(formatted, FormatInline(p))
	}
	return template.HTML(JoinParagraphs(formatted)), nil
}

// SplitParagraphs splits content on blank lines and drops empty paragraphs.
func SplitParagraphs(content string) []string {
	parts := paragraphBreak.Split(content, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// FormatInline escapes a paragraph and converts its inline spans.
// Strong spans are matched before emphasis so "**" is never read as two "*".
func FormatInline(paragraph string) string {
	s := html.EscapeString(paragraph)
	s = strongSpan.ReplaceAllString(s, "<strong>$1</strong>")
	s = emphasisSpan.ReplaceAllString(s, "<em>$1</em>")
	return strings.ReplaceAll(s, "\n", "<br>")
}

// JoinParagraphs wraps each formatted paragraph in <p> and joins them with a blank line.
func JoinParagraphs(paragraphs []string) string {
	wrapped := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		wrapped = append(wrapped, "<p>"+p+"</p>")
	}
	return strings.Join(wrapped, "\n\n")
}
