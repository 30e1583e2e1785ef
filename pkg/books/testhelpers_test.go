package books

import (
	"context"
	"database/sql"
	"testing"

	"github.com/gutenshelf/gutenshelf/pkg/migrations"
	"github.com/gutenshelf/gutenshelf/pkg/models"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	// In-memory SQLite is private per connection.
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	models.Register(db)

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func strPtr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}

type seedBook struct {
	gutenbergID   int
	title         string
	downloadCount int
	authors       []*models.Author
	languages     []string
	subjects      []string
	bookshelves   []string
	formats       map[string]string
}

func seedCatalogBook(t *testing.T, svc *Service, seed seedBook) {
	t.Helper()

	book := &models.Book{
		GutenbergID:   seed.gutenbergID,
		Title:         strPtr(seed.title),
		MediaType:     "Text",
		DownloadCount: seed.downloadCount,
		Authors:       seed.authors,
	}
	for _, code := range seed.languages {
		book.Languages = append(book.Languages, &models.Language{Code: code})
	}
	for _, name := range seed.subjects {
		book.Subjects = append(book.Subjects, &models.Subject{Name: name})
	}
	for _, name := range seed.bookshelves {
		book.Bookshelves = append(book.Bookshelves, &models.Bookshelf{Name: name})
	}
	for mimeType, url := range seed.formats {
		book.Formats = append(book.Formats, &models.Format{MimeType: mimeType, URL: url})
	}

	require.NoError(t, svc.CreateBook(context.Background(), book))
}

// seedCatalog loads a small fixture catalog with known associations and
// descending download counts.
func seedCatalog(t *testing.T, svc *Service) {
	t.Helper()

	seedCatalogBook(t, svc, seedBook{
		gutenbergID:   1342,
		title:         "Pride and Prejudice",
		downloadCount: 120,
		authors:       []*models.Author{{Name: "Austen, Jane", BirthYear: intPtr(1775), DeathYear: intPtr(1817)}},
		languages:     []string{"en"},
		subjects:      []string{"England -- Fiction", "Courtship -- Fiction"},
		bookshelves:   []string{"Best Books Ever Listings"},
		formats: map[string]string{
			"text/html":           "https://www.gutenberg.org/ebooks/1342.html.images",
			"application/epub+zip": "https://www.gutenberg.org/ebooks/1342.epub.images",
		},
	})
	seedCatalogBook(t, svc, seedBook{
		gutenbergID:   2600,
		title:         "War and Peace",
		downloadCount: 110,
		authors: []*models.Author{
			{Name: "Tolstoy, Leo, graf", BirthYear: intPtr(1828), DeathYear: intPtr(1910)},
			{Name: "Maude, Louise"},
		},
		languages:   []string{"en"},
		subjects:    []string{"Napoleonic Wars, 1800-1815 -- Fiction"},
		bookshelves: []string{"Historical Fiction"},
		formats: map[string]string{
			"text/plain; charset=us-ascii": "https://www.gutenberg.org/ebooks/2600.txt.utf-8",
		},
	})
	seedCatalogBook(t, svc, seedBook{
		gutenbergID:   1399,
		title:         "Anna Karenina",
		downloadCount: 90,
		authors:       []*models.Author{{Name: "Tolstoy, Leo, graf", BirthYear: intPtr(1828), DeathYear: intPtr(1910)}},
		languages:     []string{"en"},
		subjects:      []string{"Adultery -- Fiction"},
		bookshelves:   []string{"Movie Books"},
		formats: map[string]string{
			"application/epub+zip": "https://www.gutenberg.org/ebooks/1399.epub.images",
		},
	})
	seedCatalogBook(t, svc, seedBook{
		gutenbergID:   17489,
		title:         "Les misérables Tome I: Fantine",
		downloadCount: 70,
		authors:       []*models.Author{{Name: "Hugo, Victor", BirthYear: intPtr(1802), DeathYear: intPtr(1885)}},
		languages:     []string{"fr"},
		subjects:      []string{"Paris (France) -- Fiction"},
		formats: map[string]string{
			"text/html": "https://www.gutenberg.org/ebooks/17489.html.images",
		},
	})
	seedCatalogBook(t, svc, seedBook{
		gutenbergID:   19002,
		title:         "Alice's Adventures in Wonderland",
		downloadCount: 50,
		authors:       []*models.Author{{Name: "Carroll, Lewis", BirthYear: intPtr(1832), DeathYear: intPtr(1898)}},
		languages:     []string{"en"},
		subjects:      []string{"Fantasy fiction"},
		bookshelves:   []string{"Children's Literature"},
		formats: map[string]string{
			"audio/ogg":                    "https://www.gutenberg.org/files/19002/ogg",
			"audio/mpeg":                   "https://www.gutenberg.org/files/19002/mp3",
			"text/plain; charset=us-ascii": "https://www.gutenberg.org/files/19002/txt",
		},
	})
}

func gutenbergIDs(books []*models.Book) []int {
	ids := make([]int, 0, len(books))
	for _, book := range books {
		ids = append(ids, book.GutenbergID)
	}
	return ids
}
