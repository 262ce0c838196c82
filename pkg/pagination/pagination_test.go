package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_Clamps(t *testing.T) {
	p := &PaginationParams{Page: 0, PerPage: 500}
	p.Validate()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 100, p.PerPage)

	p = &PaginationParams{Page: 3, PerPage: 0}
	p.Validate()
	assert.Equal(t, 20, p.PerPage)
}

func TestWindow(t *testing.T) {
	p := &PaginationParams{Page: 2, PerPage: 5}
	start, end := p.Window(7)
	assert.Equal(t, 5, start)
	assert.Equal(t, 7, end)

	p = &PaginationParams{Page: 4, PerPage: 5}
	start, end = p.Window(7)
	assert.Equal(t, 7, start)
	assert.Equal(t, 7, end)
}

func TestWindow_HugePageStaysInBounds(t *testing.T) {
	p := &PaginationParams{Page: 100000000000000001, PerPage: 100}
	start, end := p.Window(3)
	assert.Equal(t, 3, start)
	assert.Equal(t, 3, end)

	p.Validate()
	assert.Equal(t, maxPage, p.Page)
	assert.GreaterOrEqual(t, p.Offset(), 0)

	p = &PaginationParams{Page: 1, PerPage: 100}
	start, end = p.Window(3)
	assert.Equal(t, 0, start)
	assert.Equal(t, 3, end)
}

func TestNewPagination(t *testing.T) {
	pg := NewPagination(2, 5, 11)
	assert.Equal(t, 3, pg.TotalPages)
	assert.True(t, pg.HasNext)
	assert.True(t, pg.HasPrev)

	empty := NewPaginatedResult[int](nil, NewPagination(1, 5, 0))
	assert.NotNil(t, empty.Items)
	assert.False(t, empty.Pagination.HasNext)
}
