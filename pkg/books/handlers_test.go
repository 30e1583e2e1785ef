package books

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gutenshelf/gutenshelf/pkg/binder"
	"github.com/gutenshelf/gutenshelf/pkg/errcodes"
	"github.com/labstack/echo/v4"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func newBooksTestServer(t *testing.T, db *bun.DB) *echo.Echo {
	t.Helper()

	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	RegisterRoutes(e, db)
	return e
}

func listBooks(t *testing.T, e *echo.Echo, query string) (int, ListBooksResponse) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/books"+query, nil)
	rr := httptest.NewRecorder()
	e.ServeHTTP(rr, req)

	resp := ListBooksResponse{}
	if rr.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	}
	return rr.Code, resp
}

func TestHandlerList(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	seedCatalog(t, svc)
	e := newBooksTestServer(t, db)

	t.Run("returns the envelope with null page links", func(t *testing.T) {
		t.Parallel()

		code, resp := listBooks(t, e, "")
		require.Equal(t, http.StatusOK, code)

		assert.Equal(t, 5, resp.Count)
		assert.Nil(t, resp.Next)
		assert.Nil(t, resp.Previous)
		require.Len(t, resp.Results, 5)

		first := resp.Results[0]
		assert.Equal(t, 1342, first.ID)
		require.NotNil(t, first.Title)
		assert.Equal(t, "Pride and Prejudice", *first.Title)
		assert.Equal(t, 120, first.DownloadCount)
		require.Len(t, first.Authors, 1)
		assert.Equal(t, "Austen, Jane", first.Authors[0].Name)
		require.NotNil(t, first.Authors[0].BirthYear)
		assert.Equal(t, 1775, *first.Authors[0].BirthYear)
		assert.Equal(t, []string{"en"}, first.Languages)
		assert.Len(t, first.Subjects, 2)
		assert.Equal(t, []string{"Best Books Ever Listings"}, first.Bookshelves)
		assert.Len(t, first.Genre, 3)
		assert.Len(t, first.Formats, 2)
	})

	t.Run("missing associations serialize as empty lists", func(t *testing.T) {
		t.Parallel()

		code, resp := listBooks(t, e, "?gutenberg_id=17489")
		require.Equal(t, http.StatusOK, code)

		require.Len(t, resp.Results, 1)
		body := resp.Results[0]
		assert.NotNil(t, body.Bookshelves)
		assert.Empty(t, body.Bookshelves)

		// The raw JSON carries [] rather than null.
		req := httptest.NewRequest(http.MethodGet, "/api/books?gutenberg_id=17489", nil)
		rr := httptest.NewRecorder()
		e.ServeHTTP(rr, req)
		assert.Contains(t, rr.Body.String(), `"bookshelves":[]`)
	})

	t.Run("filters pass through to the search", func(t *testing.T) {
		t.Parallel()

		code, resp := listBooks(t, e, "?author=tolstoy&language=en")
		require.Equal(t, http.StatusOK, code)

		assert.Equal(t, 2, resp.Count)
		assert.Equal(t, 2600, resp.Results[0].ID)
		assert.Equal(t, 1399, resp.Results[1].ID)
	})

	t.Run("repeated gutenberg_id values accumulate", func(t *testing.T) {
		t.Parallel()

		code, resp := listBooks(t, e, "?gutenberg_id=1342&gutenberg_id=2600,1399")
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, 3, resp.Count)
	})

	t.Run("unknown parameters are rejected", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/api/books?sort=title", nil)
		rr := httptest.NewRecorder()
		e.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Contains(t, rr.Body.String(), "unknown_parameter")
	})

	t.Run("a non-numeric page is a type error", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/api/books?page=two", nil)
		rr := httptest.NewRecorder()
		e.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})

	t.Run("zero and negative pages behave as page one", func(t *testing.T) {
		t.Parallel()

		code, resp := listBooks(t, e, "?page=0")
		require.Equal(t, http.StatusOK, code)
		assert.Len(t, resp.Results, 5)
		assert.Nil(t, resp.Previous)

		code, resp = listBooks(t, e, "?page=-2")
		require.Equal(t, http.StatusOK, code)
		assert.Len(t, resp.Results, 5)
		assert.Nil(t, resp.Previous)
	})

	t.Run("pages past the end are empty but well formed", func(t *testing.T) {
		t.Parallel()

		code, resp := listBooks(t, e, "?page=4")
		require.Equal(t, http.StatusOK, code)

		assert.Equal(t, 5, resp.Count)
		assert.Nil(t, resp.Next)
		require.NotNil(t, resp.Previous)
		assert.Equal(t, 3, *resp.Previous)
		assert.Empty(t, resp.Results)
	})
}

func TestHandlerListPagination(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	for i := 1; i <= 30; i++ {
		seedCatalogBook(t, svc, seedBook{
			gutenbergID:   2000 + i,
			title:         "Paginated",
			downloadCount: 7,
		})
	}
	e := newBooksTestServer(t, db)

	code, resp := listBooks(t, e, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 30, resp.Count)
	require.NotNil(t, resp.Next)
	assert.Equal(t, 2, *resp.Next)
	assert.Nil(t, resp.Previous)
	assert.Len(t, resp.Results, PageSize)

	code, resp = listBooks(t, e, "?page=2")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 30, resp.Count)
	assert.Nil(t, resp.Next)
	require.NotNil(t, resp.Previous)
	assert.Equal(t, 1, *resp.Previous)
	assert.Len(t, resp.Results, 5)
}
