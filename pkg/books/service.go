package books

import (
	"context"
	"database/sql"

	"github.com/gutenshelf/gutenshelf/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// PageSize is the fixed number of books per result page.
const PageSize = 25

// SearchBooksOptions carries the raw filter parameters for one search.
// GutenbergIDs holds the raw values of the repeatable gutenberg_id
// parameter; every other field is a single comma-separated parameter.
type SearchBooksOptions struct {
	GutenbergIDs []string
	Title        string
	Author       string
	Language     string
	MimeType     string
	Topic        string
	Page         int
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// SearchBooks translates the raw parameters into a predicate tree, executes
// it, and returns one page of books plus the distinct total. Books are
// ordered by download count descending with id ascending as the tie-break,
// so pagination is reproducible.
func (svc *Service) SearchBooks(ctx context.Context, opts SearchBooksOptions) ([]*models.Book, int, error) {
	f := buildSearchFilter(opts)

	page := opts.Page
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * PageSize

	books := []*models.Book{}
	q := svc.db.
		NewSelect().
		Model(&books).
		Relation("Authors", relationFilter(f.author)).
		Relation("Languages", relationFilter(f.language)).
		Relation("Subjects").
		Relation("Bookshelves").
		Relation("Formats", relationFilter(f.mime)).
		Order("b.download_count DESC").
		Order("b.id ASC").
		Limit(PageSize).
		Offset(offset)

	q, joined := f.apply(q)
	if joined {
		// Joined to-many paths can multiply rows per book; collapse them.
		q = q.Group("b.id")
	}

	err := q.Scan(ctx)
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	// The total has to count distinct books, not joined rows, so it can't
	// share the grouped page query.
	countQ := svc.db.
		NewSelect().
		Model((*models.Book)(nil)).
		ColumnExpr("count(DISTINCT b.id)")
	countQ, _ = f.apply(countQ)

	var total int
	err = countQ.Scan(ctx, &total)
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return books, total, nil
}

// CreateBook inserts a book together with its associations. Shared entities
// (authors, languages, subjects, bookshelves) are matched by their natural
// key and created on first use; formats always belong to the new book.
func (svc *Service) CreateBook(ctx context.Context, book *models.Book) error {
	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.
			NewInsert().
			Model(book).
			Returning("*").
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		for _, author := range book.Authors {
			if err := findOrCreateAuthor(ctx, tx, author); err != nil {
				return err
			}
			join := &models.BookAuthor{BookID: book.ID, AuthorID: author.ID}
			if _, err := tx.NewInsert().Model(join).Exec(ctx); err != nil {
				return errors.WithStack(err)
			}
		}

		for _, language := range book.Languages {
			if err := findOrCreateLanguage(ctx, tx, language); err != nil {
				return err
			}
			join := &models.BookLanguage{BookID: book.ID, LanguageID: language.ID}
			if _, err := tx.NewInsert().Model(join).Exec(ctx); err != nil {
				return errors.WithStack(err)
			}
		}

		for _, subject := range book.Subjects {
			if err := findOrCreateSubject(ctx, tx, subject); err != nil {
				return err
			}
			join := &models.BookSubject{BookID: book.ID, SubjectID: subject.ID}
			if _, err := tx.NewInsert().Model(join).Exec(ctx); err != nil {
				return errors.WithStack(err)
			}
		}

		for _, bookshelf := range book.Bookshelves {
			if err := findOrCreateBookshelf(ctx, tx, bookshelf); err != nil {
				return err
			}
			join := &models.BookBookshelf{BookID: book.ID, BookshelfID: bookshelf.ID}
			if _, err := tx.NewInsert().Model(join).Exec(ctx); err != nil {
				return errors.WithStack(err)
			}
		}

		for _, format := range book.Formats {
			format.BookID = book.ID
		}
		if len(book.Formats) > 0 {
			_, err := tx.
				NewInsert().
				Model(&book.Formats).
				Returning("*").
				Exec(ctx)
			if err != nil {
				return errors.WithStack(err)
			}
		}

		return nil
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func findOrCreateAuthor(ctx context.Context, tx bun.Tx, author *models.Author) error {
	existing := &models.Author{}
	err := tx.
		NewSelect().
		Model(existing).
		Where("a.name = ?", author.Name).
		Limit(1).
		Scan(ctx)
	if err == nil {
		*author = *existing
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return errors.WithStack(err)
	}

	_, err = tx.
		NewInsert().
		Model(author).
		Returning("*").
		Exec(ctx)
	return errors.WithStack(err)
}

func findOrCreateLanguage(ctx context.Context, tx bun.Tx, language *models.Language) error {
	existing := &models.Language{}
	err := tx.
		NewSelect().
		Model(existing).
		Where("l.code = ?", language.Code).
		Limit(1).
		Scan(ctx)
	if err == nil {
		*language = *existing
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return errors.WithStack(err)
	}

	_, err = tx.
		NewInsert().
		Model(language).
		Returning("*").
		Exec(ctx)
	return errors.WithStack(err)
}

func findOrCreateSubject(ctx context.Context, tx bun.Tx, subject *models.Subject) error {
	existing := &models.Subject{}
	err := tx.
		NewSelect().
		Model(existing).
		Where("s.name = ?", subject.Name).
		Limit(1).
		Scan(ctx)
	if err == nil {
		*subject = *existing
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return errors.WithStack(err)
	}

	_, err = tx.
		NewInsert().
		Model(subject).
		Returning("*").
		Exec(ctx)
	return errors.WithStack(err)
}

func findOrCreateBookshelf(ctx context.Context, tx bun.Tx, bookshelf *models.Bookshelf) error {
	existing := &models.Bookshelf{}
	err := tx.
		NewSelect().
		Model(existing).
		Where("bs.name = ?", bookshelf.Name).
		Limit(1).
		Scan(ctx)
	if err == nil {
		*bookshelf = *existing
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return errors.WithStack(err)
	}

	_, err = tx.
		NewInsert().
		Model(bookshelf).
		Returning("*").
		Exec(ctx)
	return errors.WithStack(err)
}
