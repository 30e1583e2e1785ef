package books

import (
	"github.com/gutenshelf/gutenshelf/pkg/models"
)

// ListBooksResponse is the pagination envelope. next and previous are page
// numbers, null at either end of the result set.
type ListBooksResponse struct {
	Count    int          `json:"count"`
	Next     *int         `json:"next"`
	Previous *int         `json:"previous"`
	Results  []BookResult `json:"results"`
}

// BookResult is the public shape of one book. The id is the book's
// gutenberg_id; the internal primary key never leaves the service. Missing
// associations project as empty lists, never null.
type BookResult struct {
	ID            int            `json:"id"`
	Title         *string        `json:"title"`
	Authors       []AuthorResult `json:"authors"`
	Genre         []string       `json:"genre"`
	Languages     []string       `json:"languages"`
	Subjects      []string       `json:"subjects"`
	Bookshelves   []string       `json:"bookshelves"`
	DownloadCount int            `json:"download_count"`
	Formats       []FormatResult `json:"formats"`
}

type AuthorResult struct {
	Name      string `json:"name"`
	BirthYear *int   `json:"birth_year"`
	DeathYear *int   `json:"death_year"`
}

type FormatResult struct {
	MimeType string `json:"mime_type"`
	URL      string `json:"url"`
}

func projectBook(book *models.Book) BookResult {
	result := BookResult{
		ID:            book.GutenbergID,
		Title:         book.Title,
		Authors:       make([]AuthorResult, 0, len(book.Authors)),
		Genre:         []string{},
		Languages:     []string{},
		Subjects:      []string{},
		Bookshelves:   []string{},
		DownloadCount: book.DownloadCount,
		Formats:       make([]FormatResult, 0, len(book.Formats)),
	}

	for _, author := range book.Authors {
		result.Authors = append(result.Authors, AuthorResult{
			Name:      author.Name,
			BirthYear: author.BirthYear,
			DeathYear: author.DeathYear,
		})
	}

	for _, language := range book.Languages {
		if language.Code == "" {
			continue
		}
		result.Languages = append(result.Languages, language.Code)
	}

	// genre is the subject names followed by the bookshelf names.
	for _, subject := range book.Subjects {
		if subject.Name == "" {
			continue
		}
		result.Subjects = append(result.Subjects, subject.Name)
		result.Genre = append(result.Genre, subject.Name)
	}
	for _, bookshelf := range book.Bookshelves {
		if bookshelf.Name == "" {
			continue
		}
		result.Bookshelves = append(result.Bookshelves, bookshelf.Name)
		result.Genre = append(result.Genre, bookshelf.Name)
	}

	for _, format := range book.Formats {
		result.Formats = append(result.Formats, FormatResult{
			MimeType: format.MimeType,
			URL:      format.URL,
		})
	}

	return result
}
