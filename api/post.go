package api

// Post is the JSON view of a generated page in the build index.
type Post struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Excerpt     string `json:"excerpt"`
	Author      string `json:"author"`
	DateCreated string `json:"date_created"`
	DateUpdated string `json:"date_updated"`
	URL         string `json:"url"`
	ContentHash string `json:"content_hash"`
	GeneratedAt string `json:"generated_at"`
}

type PostList struct {
	Posts       []Post `json:"posts"`
	Limit       int    `json:"limit"`
	Offset      int    `json:"offset"`
	GeneratedAt string `json:"generated_at,omitempty"`
}

type Image struct {
	File      string `json:"file"`
	Label     string `json:"label"`
	Path      string `json:"path"`
	Hash      string `json:"hash"`
	UpdatedAt string `json:"updated_at"`
}
