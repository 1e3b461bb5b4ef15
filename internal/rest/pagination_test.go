package rest

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func pageContext(target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestGetPageParamsDefaults(t *testing.T) {
	p := getPageParams(pageContext("/api/v1/products"))

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, defaultPageSize, p.PageSize)
	assert.Equal(t, 0, p.Offset())
}

func TestGetPageParamsParsesQuery(t *testing.T) {
	p := getPageParams(pageContext("/api/v1/products?page=3&page_size=10"))

	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 10, p.PageSize)
	assert.Equal(t, 20, p.Offset())
}

func TestGetPageParamsClampsBadValues(t *testing.T) {
	p := getPageParams(pageContext("/api/v1/products?page=-2&page_size=9999"))

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, maxPageSize, p.PageSize)
}

func TestPaginatedResponseLinks(t *testing.T) {
	c := pageContext("/api/v1/products?page=2&page_size=10")
	p := getPageParams(c)

	body := paginatedResponse(c, p, 35, []string{})

	assert.Equal(t, int64(35), body["count"])
	assert.Contains(t, body["next"], "page=3")
	assert.Contains(t, body["previous"], "page=1")
}

func TestPaginatedResponseEdges(t *testing.T) {
	c := pageContext("/api/v1/products?page=1&page_size=20")
	p := getPageParams(c)

	body := paginatedResponse(c, p, 15, []string{})

	assert.Nil(t, body["next"])
	assert.Nil(t, body["previous"])
}
