package books

// ListBooksQuery holds the supported catalog filters. Every filter is
// optional; an absent parameter applies no constraint on that dimension.
// gutenberg_id may be repeated and each value may itself be a comma list.
type ListBooksQuery struct {
	GutenbergID []string `query:"gutenberg_id" json:"gutenberg_id,omitempty"`
	Title       string   `query:"title" json:"title,omitempty" validate:"omitempty,max=500"`
	Author      string   `query:"author" json:"author,omitempty" validate:"omitempty,max=500"`
	Language    string   `query:"language" json:"language,omitempty" validate:"omitempty,max=100"`
	MimeType    string   `query:"mime_type" json:"mime_type,omitempty" validate:"omitempty,max=200"`
	Topic       string   `query:"topic" json:"topic,omitempty" validate:"omitempty,max=500"`
	Page        int      `query:"page" json:"page,omitempty" default:"1"`
}
