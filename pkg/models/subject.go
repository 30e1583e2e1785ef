package models

import (
	"github.com/uptrace/bun"
)

type Subject struct {
	bun.BaseModel `bun:"table:books_subject,alias:s"`

	ID   int    `bun:",pk,nullzero" json:"-"`
	Name string `bun:",nullzero" json:"name"`
}

type BookSubject struct {
	bun.BaseModel `bun:"table:books_book_subjects,alias:bsj"`

	ID        int      `bun:",pk,nullzero" json:"id"`
	BookID    int      `bun:",nullzero" json:"book_id"`
	Book      *Book    `bun:"rel:belongs-to,join:book_id=id" json:"-"`
	SubjectID int      `bun:",nullzero" json:"subject_id"`
	Subject   *Subject `bun:"rel:belongs-to,join:subject_id=id" json:"subject,omitempty"`
}
