package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec(`
			CREATE TABLE books_book (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				gutenberg_id INTEGER NOT NULL UNIQUE,
				title TEXT,
				media_type VARCHAR(16) NOT NULL,
				download_count INTEGER NOT NULL DEFAULT 0
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_books_book_download_count ON books_book (download_count DESC)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE books_author (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name VARCHAR(128) NOT NULL,
				birth_year SMALLINT,
				death_year SMALLINT
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE books_language (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				code VARCHAR(4) NOT NULL UNIQUE
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE books_subject (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE books_bookshelf (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name VARCHAR(64) NOT NULL
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE books_format (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				book_id INTEGER NOT NULL REFERENCES books_book (id),
				mime_type VARCHAR(32) NOT NULL,
				url TEXT NOT NULL
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_books_format_book_id ON books_format (book_id)`)
		if err != nil {
			return errors.WithStack(err)
		}

		joins := []string{
			`CREATE TABLE books_book_authors (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				book_id INTEGER NOT NULL REFERENCES books_book (id),
				author_id INTEGER NOT NULL REFERENCES books_author (id)
			)`,
			`CREATE INDEX ix_books_book_authors_book_id ON books_book_authors (book_id)`,
			`CREATE INDEX ix_books_book_authors_author_id ON books_book_authors (author_id)`,
			`CREATE TABLE books_book_languages (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				book_id INTEGER NOT NULL REFERENCES books_book (id),
				language_id INTEGER NOT NULL REFERENCES books_language (id)
			)`,
			`CREATE INDEX ix_books_book_languages_book_id ON books_book_languages (book_id)`,
			`CREATE INDEX ix_books_book_languages_language_id ON books_book_languages (language_id)`,
			`CREATE TABLE books_book_subjects (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				book_id INTEGER NOT NULL REFERENCES books_book (id),
				subject_id INTEGER NOT NULL REFERENCES books_subject (id)
			)`,
			`CREATE INDEX ix_books_book_subjects_book_id ON books_book_subjects (book_id)`,
			`CREATE INDEX ix_books_book_subjects_subject_id ON books_book_subjects (subject_id)`,
			`CREATE TABLE books_book_bookshelves (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				book_id INTEGER NOT NULL REFERENCES books_book (id),
				bookshelf_id INTEGER NOT NULL REFERENCES books_bookshelf (id)
			)`,
			`CREATE INDEX ix_books_book_bookshelves_book_id ON books_book_bookshelves (book_id)`,
			`CREATE INDEX ix_books_book_bookshelves_bookshelf_id ON books_book_bookshelves (bookshelf_id)`,
		}
		for _, stmt := range joins {
			if _, err := db.Exec(stmt); err != nil {
				return errors.WithStack(err)
			}
		}

		return nil
	}

	down := func(_ context.Context, db *bun.DB) error {
		tables := []string{
			"books_book_bookshelves",
			"books_book_subjects",
			"books_book_languages",
			"books_book_authors",
			"books_format",
			"books_bookshelf",
			"books_subject",
			"books_language",
			"books_author",
			"books_book",
		}
		for _, table := range tables {
			if _, err := db.Exec(`DROP TABLE IF EXISTS ` + table); err != nil {
				return errors.WithStack(err)
			}
		}
		return nil
	}

	Migrations.MustRegister(up, down)
}
