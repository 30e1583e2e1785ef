// Package gutenberg parses Project Gutenberg catalog dumps into catalog
// models. A dump is a JSON array of book records in the shape published by
// the Gutendex dataset: nested author objects, flat string lists for
// languages, subjects, and bookshelves, and a mime-type-to-url map for
// formats.
package gutenberg

import (
	"io"

	"github.com/gutenshelf/gutenshelf/pkg/models"
	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
)

type Person struct {
	Name      string `json:"name"`
	BirthYear *int   `json:"birth_year"`
	DeathYear *int   `json:"death_year"`
}

type Record struct {
	ID            int               `json:"id"`
	Title         *string           `json:"title"`
	Authors       []Person          `json:"authors"`
	Languages     []string          `json:"languages"`
	Subjects      []string          `json:"subjects"`
	Bookshelves   []string          `json:"bookshelves"`
	Formats       map[string]string `json:"formats"`
	MediaType     string            `json:"media_type"`
	DownloadCount int               `json:"download_count"`
}

// Parse reads an entire dump. It fails on the first malformed record rather
// than loading a partial catalog.
func Parse(r io.Reader) ([]Record, error) {
	records := []Record{}
	dec := json.NewDecoder(r)
	if err := dec.Decode(&records); err != nil {
		return nil, errors.Wrap(err, "decoding catalog dump")
	}
	return records, nil
}

// ToModel converts one dump record into an unsaved Book aggregate. Blank
// association names are dropped here so they never reach the database.
func (r Record) ToModel() *models.Book {
	book := &models.Book{
		GutenbergID:   r.ID,
		Title:         r.Title,
		MediaType:     r.MediaType,
		DownloadCount: r.DownloadCount,
	}

	for _, person := range r.Authors {
		if person.Name == "" {
			continue
		}
		book.Authors = append(book.Authors, &models.Author{
			Name:      person.Name,
			BirthYear: person.BirthYear,
			DeathYear: person.DeathYear,
		})
	}
	for _, code := range r.Languages {
		if code == "" {
			continue
		}
		book.Languages = append(book.Languages, &models.Language{Code: code})
	}
	for _, name := range r.Subjects {
		if name == "" {
			continue
		}
		book.Subjects = append(book.Subjects, &models.Subject{Name: name})
	}
	for _, name := range r.Bookshelves {
		if name == "" {
			continue
		}
		book.Bookshelves = append(book.Bookshelves, &models.Bookshelf{Name: name})
	}
	for mimeType, url := range r.Formats {
		if mimeType == "" || url == "" {
			continue
		}
		book.Formats = append(book.Formats, &models.Format{MimeType: mimeType, URL: url})
	}

	return book
}
