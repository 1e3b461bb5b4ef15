package rest

import (
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type pageParams struct {
	Page     int
	PageSize int
}

func getPageParams(c echo.Context) pageParams {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}

	size, _ := strconv.Atoi(c.QueryParam("page_size"))
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	return pageParams{Page: page, PageSize: size}
}

func (p pageParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// paginatedResponse shapes list endpoints as {count, next, previous, results}
// with absolute page links.
func paginatedResponse(c echo.Context, p pageParams, count int64, results interface{}) map[string]interface{} {
	var next, previous interface{}

	if int64(p.Page*p.PageSize) < count {
		next = pageURL(c, p.Page+1)
	}
	if p.Page > 1 {
		previous = pageURL(c, p.Page-1)
	}

	return map[string]interface{}{
		"count":    count,
		"next":     next,
		"previous": previous,
		"results":  results,
	}
}

func pageURL(c echo.Context, page int) string {
	u := url.URL{
		Scheme:   c.Scheme(),
		Host:     c.Request().Host,
		Path:     c.Request().URL.Path,
		RawQuery: c.Request().URL.Query().Encode(),
	}

	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()

	return u.String()
}
