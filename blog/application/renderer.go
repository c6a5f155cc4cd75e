package application

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/benjination/portfolio-blog/blog/domain"
)

var (
	//go:embed templates/post.html.tmpl
	postTemplate string

	//go:embed templates/style.css
	postStyle string
)

// RenderOptions carries the site settings a page needs.
type RenderOptions struct {
	SiteURL    string
	SiteName   string
	Owner      string
	OGImage    string
	Favicon    string
	BackLink   string
	DateLayout string
	Location   *time.Location
	Formatter  ContentFormatter
}

// Renderer turns posts into standalone HTML documents.
type Renderer struct {
	tmpl *template.Template
	opts RenderOptions
}

type pageData struct {
	Post         *domain.Post
	SiteName     string
	Owner        string
	CanonicalURL string
	OGImage      string
	Favicon      string
	BackLink     string
	DisplayDate  string
	Body         template.HTML
	Style        template.CSS
}

func NewRenderer(opts RenderOptions) (*Renderer, error) {
	tmpl, err := template.New("post").Parse(postTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse post template: %w", err)
	}

	opts.SiteURL = strings.TrimSuffix(opts.SiteURL, "/")
	if opts.Formatter == nil {
		opts.Formatter = SimpleFormatter{}
	}
	if opts.DateLayout == "" {
		opts.DateLayout = "1/2/2006"
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}

	return &Renderer{tmpl: tmpl, opts: opts}, nil
}

// Render produces the complete page for a post. The output depends only on the
// post and the renderer options.
func (r *Renderer) Render(post *domain.Post) ([]byte, error) {
	body, err := r.opts.Formatter.Format(post.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to format content for post %s: %w", post.ID, err)
	}

	data := pageData{
		Post:         post,
		SiteName:     r.opts.SiteName,
		Owner:        r.opts.Owner,
		CanonicalURL: r.opts.SiteURL + "/blog/" + post.ID,
		OGImage:      r.absoluteURL(r.opts.OGImage),
		Favicon:      r.opts.Favicon,
		BackLink:     r.opts.BackLink,
		DisplayDate:  formatDisplayDate(post.DateCreated, r.opts.DateLayout, r.opts.Location),
		Body:         body,
		Style:        template.CSS(postStyle),
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute post template for %s: %w", post.ID, err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) absoluteURL(p string) string {
	if strings.HasPrefix(p, "/") {
		return r.opts.SiteURL + p
	}
	return p
}

// Date-only values are calendar dates and stay on that day regardless of loc.
var dateLayouts = []struct {
	layout   string
	calendar bool
}{
	{time.RFC3339Nano, false},
	{"2006-01-02T15:04:05", false},
	{"2006-01-02", true},
}

// formatDisplayDate renders a stored date for display. Values that do not
// parse are returned unchanged.
func formatDisplayDate(raw, layout string, loc *time.Location) string {
	s := strings.TrimSpace(raw)
	for _, l := range dateLayouts {
		if l.calendar {
			if t, err := time.Parse(l.layout, s); err == nil {
				return t.Format(layout)
			}
			continue
		}
		if t, err := time.ParseInLocation(l.layout, s, loc); err == nil {
			return t.In(loc).Format(layout)
		}
	}
	return raw
}
