package models

import (
	"github.com/uptrace/bun"
)

type Author struct {
	bun.BaseModel `bun:"table:books_author,alias:a"`

	ID        int    `bun:",pk,nullzero" json:"-"`
	Name      string `bun:",nullzero" json:"name"`
	BirthYear *int   `json:"birth_year"`
	DeathYear *int   `json:"death_year"`
}

type BookAuthor struct {
	bun.BaseModel `bun:"table:books_book_authors,alias:ba"`

	ID       int     `bun:",pk,nullzero" json:"id"`
	BookID   int     `bun:",nullzero" json:"book_id"`
	Book     *Book   `bun:"rel:belongs-to,join:book_id=id" json:"-"`
	AuthorID int     `bun:",nullzero" json:"author_id"`
	Author   *Author `bun:"rel:belongs-to,join:author_id=id" json:"author,omitempty"`
}
