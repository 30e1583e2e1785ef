package models

import (
	"github.com/uptrace/bun"
)

type Bookshelf struct {
	bun.BaseModel `bun:"table:books_bookshelf,alias:bs"`

	ID   int    `bun:",pk,nullzero" json:"-"`
	Name string `bun:",nullzero" json:"name"`
}

type BookBookshelf struct {
	bun.BaseModel `bun:"table:books_book_bookshelves,alias:bbs"`

	ID          int        `bun:",pk,nullzero" json:"id"`
	BookID      int        `bun:",nullzero" json:"book_id"`
	Book        *Book      `bun:"rel:belongs-to,join:book_id=id" json:"-"`
	BookshelfID int        `bun:",nullzero" json:"bookshelf_id"`
	Bookshelf   *Bookshelf `bun:"rel:belongs-to,join:bookshelf_id=id" json:"bookshelf,omitempty"`
}
