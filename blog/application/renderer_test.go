package application

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/benjination/portfolio-blog/blog/domain"
	"golang.org/x/net/html"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer(RenderOptions{
		SiteURL:  "https://benjaminniccum.com/",
		SiteName: "Benjamin Niccum - Portfolio",
		Owner:    "Benjamin Niccum",
		OGImage:  "/og-image.png",
		Favicon:  "/favicon.svg",
		BackLink: "/#blog",
	})
	if err != nil {
		t.Fatalf("NewRenderer() returned error: %v", err)
	}
	return r
}

func testPost() *domain.Post {
	return &domain.Post{
		ID:          "my-first-post",
		Title:       "My First Post",
		Content:     "Hello **world**.\n\nSecond paragraph.",
		Excerpt:     "Hello world.",
		Author:      "Benjamin Niccum",
		Tags:        []string{"go", "web"},
		IsPublished: true,
		DateCreated: "2024-01-15",
		DateUpdated: "2024-01-16",
	}
}

// metaContent collects the content attribute of every meta tag keyed by its name or property.
func metaContent(t *testing.T, page []byte) (map[string][]string, *html.Node) {
	t.Helper()
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		t.Fatalf("failed to parse rendered page: %v", err)
	}

	metas := make(map[string][]string)
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "meta" {
			var key, content string
			for _, a := range n.Attr {
				switch a.Key {
				case "name", "property":
					key = a.Val
				case "content":
					content = a.Val
				}
			}
			if key != "" {
				metas[key] = append(metas[key], content)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return metas, doc
}

func findElement(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, match); found != nil {
			return found
		}
	}
	return nil
}

func hasClass(class string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		for _, a := range n.Attr {
			if a.Key == "class" && a.Val == class {
				return true
			}
		}
		return false
	}
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func TestRenderer_Deterministic(t *testing.T) {
	r := newTestRenderer(t)

	first, err := r.Render(testPost())
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	second, err := r.Render(testPost())
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Error("rendering the same post twice produced different bytes")
	}
}

func TestRenderer_HeadMetadata(t *testing.T) {
	page, err := newTestRenderer(t).Render(testPost())
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}

	metas, doc := metaContent(t, page)

	want := map[string]string{
		"description":            "Hello world.",
		"author":                 "Benjamin Niccum",
		"og:title":               "My First Post",
		"og:type":                "article",
		"og:url":                 "https://benjaminniccum.com/blog/my-first-post",
		"og:image":               "https://benjaminniccum.com/og-image.png",
		"og:site_name":           "Benjamin Niccum - Portfolio",
		"twitter:card":           "summary_large_image",
		"twitter:title":          "My First Post",
		"article:published_time": "2024-01-15",
		"article:modified_time":  "2024-01-16",
	}
	for key, value := range want {
		got := metas[key]
		if len(got) != 1 || got[0] != value {
			t.Errorf("meta %s = %q, want %q", key, got, value)
		}
	}

	if tags := metas["article:tag"]; len(tags) != 2 || tags[0] != "go" || tags[1] != "web" {
		t.Errorf("article:tag = %q, want [go web]", tags)
	}

	title := findElement(doc, func(n *html.Node) bool { return n.Data == "title" })
	if title == nil || textContent(title) != "My First Post - Benjamin Niccum" {
		t.Errorf("unexpected <title>: %v", title)
	}

	canonical := findElement(doc, func(n *html.Node) bool {
		if n.Data != "link" {
			return false
		}
		for _, a := range n.Attr {
			if a.Key == "rel" && a.Val == "canonical" {
				return true
			}
		}
		return false
	})
	if canonical == nil {
		t.Fatal("no canonical link")
	}
	for _, a := range canonical.Attr {
		if a.Key == "href" && a.Val != "https://benjaminniccum.com/blog/my-first-post" {
			t.Errorf("canonical href = %q", a.Val)
		}
	}
}

func TestRenderer_Body(t *testing.T) {
	page, err := newTestRenderer(t).Render(testPost())
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}

	if !bytes.Contains(page, []byte("<p>Hello <strong>world</strong>.</p>\n\n<p>Second paragraph.</p>")) {
		t.Errorf("rendered body missing formatted paragraphs:\n%s", page)
	}

	_, doc := metaContent(t, page)
	date := findElement(doc, hasClass("date"))
	if date == nil {
		t.Fatal("no date element")
	}
	if got := textContent(date); got != "1/15/2024" {
		t.Errorf("display date = %q, want 1/15/2024", got)
	}

	back := findElement(doc, hasClass("back-button"))
	if back == nil {
		t.Fatal("no back button")
	}
	if back.Attr[0].Val != "/#blog" {
		t.Errorf("back link = %q, want /#blog", back.Attr[0].Val)
	}
}

func TestRenderer_EscapesInterpolatedText(t *testing.T) {
	post := testPost()
	post.Title = `<script>alert("x")</script>`
	post.Excerpt = `"><img src=x onerror=alert(1)>`
	post.Author = "Tom & Jerry"
	post.Content = "<b>not bold</b>"

	page, err := newTestRenderer(t).Render(post)
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}

	for _, raw := range []string{"<script>alert", "<img src=x", "<b>not bold</b>"} {
		if bytes.Contains(page, []byte(raw)) {
			t.Errorf("rendered page contains unescaped %q", raw)
		}
	}

	metas, doc := metaContent(t, page)
	if got := metas["description"]; len(got) != 1 || got[0] != post.Excerpt {
		t.Errorf("description round-trip = %q, want %q", got, post.Excerpt)
	}
	heading := findElement(doc, hasClass("post-title"))
	if heading == nil {
		t.Fatal("no post title heading")
	}
	if got := textContent(heading); got != post.Title {
		t.Errorf("post title round-trip = %q, want %q", got, post.Title)
	}
}

func TestRenderer_NoTags(t *testing.T) {
	post := testPost()
	post.Tags = nil

	page, err := newTestRenderer(t).Render(post)
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	if bytes.Contains(page, []byte("article:tag")) || bytes.Contains(page, []byte(`class="post-tags"`)) {
		t.Error("page without tags should not contain tag markup")
	}
}

func TestFormatDisplayDate(t *testing.T) {
	chicago, err := time.LoadLocation("America/Chicago")
	if err != nil {
		t.Skipf("time zone data unavailable: %v", err)
	}

	tests := []struct {
		name   string
		raw    string
		layout string
		loc    *time.Location
		want   string
	}{
		{name: "Date only", raw: "2024-01-15", layout: "1/2/2006", loc: time.UTC, want: "1/15/2024"},
		{name: "Date only ignores zone", raw: "2024-01-15", layout: "1/2/2006", loc: chicago, want: "1/15/2024"},
		{name: "RFC3339 in UTC", raw: "2024-03-01T02:00:00Z", layout: "1/2/2006", loc: time.UTC, want: "3/1/2024"},
		{name: "RFC3339 shifted to zone", raw: "2024-03-01T02:00:00Z", layout: "1/2/2006", loc: chicago, want: "2/29/2024"},
		{name: "Fractional seconds", raw: "2024-06-30T23:59:59.123456Z", layout: "2006-01-02", loc: time.UTC, want: "2024-06-30"},
		{name: "No zone uses location", raw: "2024-07-04T12:00:00", layout: "Jan 2, 2006", loc: chicago, want: "Jul 4, 2024"},
		{name: "Unparseable kept verbatim", raw: "last tuesday", layout: "1/2/2006", loc: time.UTC, want: "last tuesday"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatDisplayDate(tt.raw, tt.layout, tt.loc); got != tt.want {
				t.Errorf("formatDisplayDate(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
