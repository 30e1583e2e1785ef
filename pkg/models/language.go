package models

import (
	"github.com/uptrace/bun"
)

type Language struct {
	bun.BaseModel `bun:"table:books_language,alias:l"`

	ID   int    `bun:",pk,nullzero" json:"-"`
	Code string `bun:",nullzero" json:"code"`
}

type BookLanguage struct {
	bun.BaseModel `bun:"table:books_book_languages,alias:bl"`

	ID         int       `bun:",pk,nullzero" json:"id"`
	BookID     int       `bun:",nullzero" json:"book_id"`
	Book       *Book     `bun:"rel:belongs-to,join:book_id=id" json:"-"`
	LanguageID int       `bun:",nullzero" json:"language_id"`
	Language   *Language `bun:"rel:belongs-to,join:language_id=id" json:"language,omitempty"`
}
