package application

import (
	"strings"

	"github.com/benjination/portfolio-blog/blog/domain"
)

const (
	defaultTitle   = "Untitled Post"
	defaultContent = "No content available"
	defaultDate    = "2024-01-01"

	excerptLength = 150
)

// overflowFields hold the continuation of main_content for posts too large
// for a single document field.
var overflowFields = []string{"overflow1", "overflow2", "overflow3", "overflow4"}

// MapperDefaults are the literal fallbacks that depend on configuration.
type MapperDefaults struct {
	Author string
}

// MapDocument converts a raw document into a post. It returns false when the
// document has no fields container; otherwise missing or malformed fields
// degrade to defaults and the choice is recorded in Post.Provenance.
func MapDocument(doc domain.RawDocument, defaults MapperDefaults) (*domain.Post, bool) {
	if doc.Fields == nil {
		return nil, false
	}

	f := fieldReader{fields: doc.Fields}
	prov := domain.Provenance{}

	title := f.firstString(prov, "title", defaultTitle, "title")

	content, ok := f.splitContent()
	if ok {
		prov["content"] = domain.FieldSource{Remote: "main_content"}
	} else {
		content = f.firstString(prov, "content", defaultContent, "content")
	}

	excerpt := f.firstString(prov, "excerpt", "", "excerpt", "description")
	if excerpt == "" {
		excerpt = deriveExcerpt(content)
	}

	author := f.firstString(prov, "author", defaults.Author, "author")

	isPublished, src := f.anyTrue("is_published", "published")
	prov["isPublished"] = src

	dateCreated := f.firstString(prov, "dateCreated", defaultDate, "date_created", "created_at")
	dateUpdated := f.firstString(prov, "dateUpdated", defaultDate, "date_updated", "updated_at")

	tags := f.stringArray("tags")
	if len(tags) > 0 {
		prov["tags"] = domain.FieldSource{Remote: "tags"}
	} else {
		prov["tags"] = domain.FieldSource{Default: true}
	}

	return &domain.Post{
		ID:          DerivePostID(title),
		Title:       title,
		Content:     content,
		Excerpt:     excerpt,
		Author:      author,
		Tags:        tags,
		IsPublished: isPublished,
		DateCreated: dateCreated,
		DateUpdated: dateUpdated,
		Provenance:  prov,
	}, true
}

// deriveExcerpt takes the first 150 characters of content and appends an ellipsis.
func deriveExcerpt(content string) string {
	runes := []rune(content)
	if len(runes) > excerptLength {
		runes = runes[:excerptLength]
	}
	return string(runes) + "..."
}

type fieldReader struct {
	fields map[string]domain.Value
}

// str returns a non-empty string value. Timestamp values are accepted for date fields.
func (f fieldReader) str(name string) (string, bool) {
	v, ok := f.fields[name]
	if !ok {
		return "", false
	}
	if v.StringValue != nil && *v.StringValue != "" {
		return *v.StringValue, true
	}
	if v.TimestampValue != nil && *v.TimestampValue != "" {
		return *v.TimestampValue, true
	}
	return "", false
}

// firstString reads the first non-empty alternative, falling back to def.
func (f fieldReader) firstString(prov domain.Provenance, field, def string, names ...string) string {
	for _, name := range names {
		if s, ok := f.str(name); ok {
			prov[field] = domain.FieldSource{Remote: name}
			return s
		}
	}
	prov[field] = domain.FieldSource{Default: true}
	return def
}

// anyTrue reports whether any of the named boolean fields is true.
func (f fieldReader) anyTrue(names ...string) (bool, domain.FieldSource) {
	for _, name := range names {
		v, ok := f.fields[name]
		if ok && v.BooleanValue != nil && *v.BooleanValue {
			return true, domain.FieldSource{Remote: name}
		}
	}
	return false, domain.FieldSource{Default: true}
}

// splitContent joins main_content with its overflow fields.
func (f fieldReader) splitContent() (string, bool) {
	main, ok := f.str("main_content")
	if !ok {
		return "", false
	}

	var b strings.Builder
	b.WriteString(main)
	for _, name := range overflowFields {
		if part, ok := f.str(name); ok {
			b.WriteString(part)
		}
	}
	return b.String(), true
}

func (f fieldReader) stringArray(name string) []string {
	v, ok := f.fields[name]
	if !ok || v.ArrayValue == nil {
		return nil
	}

	var out []string
	for _, item := range v.ArrayValue.Values {
		if item.StringValue != nil && *item.StringValue != "" {
			out = append(out, *item.StringValue)
		}
	}
	return out
}
