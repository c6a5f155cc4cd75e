package application

import (
	"bytes"
	"fmt"
	"html/template"
	"path"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

type relativeLinkTransformer struct {
	domain string
}

func (t *relativeLinkTransformer) Transform(node *ast.Document, reader text.Reader, pc parser.Context) {
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		link, linkOk := n.(*ast.Link)
		img, imgOk := n.(*ast.Image)
		if !linkOk && !imgOk {
			return ast.WalkContinue, nil
		}

		dest := ""
		if linkOk {
			dest = string(link.Destination)
		} else if imgOk {
			dest = string(img.Destination)
		}

		if dest == "" || strings.HasPrefix(dest, "#") || !isRelativeLink(dest) {
			return ast.WalkContinue, nil
		}

		if imgOk {
			img.Destination = []byte(t.imageURL(dest))
		} else if linkOk {
			link.Destination = []byte(t.linkURL(dest))
		}

		return ast.WalkContinue, nil
	})
}

// imageURL points relative image references at the site's image directory.
func (t *relativeLinkTransformer) imageURL(dest string) string {
	if strings.HasPrefix(dest, "/") {
		return t.domain + dest
	}
	return t.domain + "/blog/images/" + path.Base(dest)
}

// linkURL resolves site-root links against the domain and bare links against /blog/.
func (t *relativeLinkTransformer) linkURL(dest string) string {
	if strings.HasPrefix(dest, "/") {
		return t.domain + dest
	}
	destFile := path.Base(dest)
	// Strip .md and .html extensions from links
	destFile = strings.TrimSuffix(destFile, ".md")
	destFile = strings.TrimSuffix(destFile, ".html")
	return t.domain + "/blog/" + destFile
}

func isRelativeLink(dest string) bool {
	// Absolute path check
	if strings.HasPrefix(dest, "/") {
		if strings.HasPrefix(dest, "//") {
			return false
		}
		return true
	}

	if strings.HasPrefix(dest, "./") || strings.HasPrefix(dest, "../") {
		return true
	}

	if strings.Contains(dest, ":") {
		return false
	}

	return true
}

// MarkdownFormatter renders post content as GitHub-flavored markdown.
// Raw HTML in the source is omitted.
type MarkdownFormatter struct {
	renderer goldmark.Markdown
}

var _ ContentFormatter = (*MarkdownFormatter)(nil)

func NewMarkdownFormatter(siteURL string) *MarkdownFormatter {
	renderer := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Table,
			extension.Strikethrough,
			extension.TaskList,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(
				util.Prioritized(&relativeLinkTransformer{domain: strings.TrimSuffix(siteURL, "/")}, 100),
			),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
		),
	)

	return &MarkdownFormatter{
		renderer: renderer,
	}
}

func (m *MarkdownFormatter) Format(content string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := m.renderer.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown to HTML: %w", err)
	}
	return template.HTML(buf.String()), nil
}
