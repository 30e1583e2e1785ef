package books

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes mounts the catalog search endpoint under /api/books.
func RegisterRoutes(e *echo.Echo, db *bun.DB) {
	RegisterRoutesWithGroup(e.Group("/api/books"), db)
}

// RegisterRoutesWithGroup registers book routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB) {
	h := &handler{bookService: NewService(db)}

	g.GET("", h.list)
}
