package models

import (
	"github.com/uptrace/bun"
)

// Format is owned by a single Book (plain foreign key, no join table).
type Format struct {
	bun.BaseModel `bun:"table:books_format,alias:f"`

	ID       int    `bun:",pk,nullzero" json:"-"`
	BookID   int    `bun:",nullzero" json:"-"`
	MimeType string `bun:",nullzero" json:"mime_type"`
	URL      string `bun:",nullzero" json:"url"`
}
