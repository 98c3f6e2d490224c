// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/mbayedione/giehub/internal/app/system/apiutil"
)

// DefaultPerPage is the page size used when the client does not ask for
// one; MaxPerPage caps what a client may ask for.
const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Page holds the parsed pagination parameters of a list request.
type Page struct {
	Page    int
	PerPage int
}

// Parse reads "page" and "per_page" query parameters, falling back to
// sane values on anything missing or malformed.
func Parse(r *http.Request) Page {
	p := Page{Page: 1, PerPage: DefaultPerPage}
	if n, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && n > 0 {
		p.Page = n
	}
	if n, err := strconv.Atoi(r.URL.Query().Get("per_page")); err == nil && n > 0 {
		p.PerPage = n
		if p.PerPage > MaxPerPage {
			p.PerPage = MaxPerPage
		}
	}
	return p
}

// Skip returns the number of documents to skip for Mongo Find.
func (p Page) Skip() int64 { return int64((p.Page - 1) * p.PerPage) }

// Limit returns the page size as int64 for Mongo Find.
func (p Page) Limit() int64 { return int64(p.PerPage) }

// Meta builds the response pagination block for a total document count.
func (p Page) Meta(total int64) apiutil.Pagination {
	pages := int((total + int64(p.PerPage) - 1) / int64(p.PerPage))
	return apiutil.Pagination{
		Page:       p.Page,
		PerPage:    p.PerPage,
		Total:      total,
		TotalPages: pages,
	}
}
