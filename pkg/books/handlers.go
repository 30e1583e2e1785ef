package books

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	bookService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	// Bind params.
	params := ListBooksQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	// An absent or zero page binds to 1; anything below that is clamped so
	// the offset can never go negative.
	page := params.Page
	if page < 1 {
		page = 1
	}

	books, total, err := h.bookService.SearchBooks(ctx, SearchBooksOptions{
		GutenbergIDs: params.GutenbergID,
		Title:        params.Title,
		Author:       params.Author,
		Language:     params.Language,
		MimeType:     params.MimeType,
		Topic:        params.Topic,
		Page:         page,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	resp := ListBooksResponse{
		Count:   total,
		Results: make([]BookResult, 0, len(books)),
	}
	offset := (page - 1) * PageSize
	if offset+PageSize < total {
		next := page + 1
		resp.Next = &next
	}
	if page > 1 {
		previous := page - 1
		resp.Previous = &previous
	}
	for _, book := range books {
		resp.Results = append(resp.Results, projectBook(book))
	}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}
