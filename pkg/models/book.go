package models

import (
	"github.com/uptrace/bun"
)

// Book is the aggregate root of the catalog. The internal id is never
// exposed; gutenberg_id is the public, filterable identifier.
type Book struct {
	bun.BaseModel `bun:"table:books_book,alias:b"`

	ID            int     `bun:",pk,nullzero" json:"-"`
	GutenbergID   int     `bun:",nullzero" json:"gutenberg_id"`
	Title         *string `json:"title"`
	MediaType     string  `bun:",nullzero" json:"media_type"`
	DownloadCount int     `json:"download_count"`

	Authors     []*Author    `bun:"m2m:books_book_authors,join:Book=Author" json:"authors,omitempty"`
	Languages   []*Language  `bun:"m2m:books_book_languages,join:Book=Language" json:"languages,omitempty"`
	Subjects    []*Subject   `bun:"m2m:books_book_subjects,join:Book=Subject" json:"subjects,omitempty"`
	Bookshelves []*Bookshelf `bun:"m2m:books_book_bookshelves,join:Book=Bookshelf" json:"bookshelves,omitempty"`
	Formats     []*Format    `bun:"rel:has-many,join:id=book_id" json:"formats,omitempty"`
}

// Register registers the join-table models with bun so that m2m relations
// can be traversed. It must be called once per DB handle before any query
// that loads book associations.
func Register(db *bun.DB) {
	db.RegisterModel(
		(*BookAuthor)(nil),
		(*BookLanguage)(nil),
		(*BookSubject)(nil),
		(*BookBookshelf)(nil),
	)
}
