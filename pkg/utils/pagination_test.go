package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePaginationParams_Defaults(t *testing.T) {
	limit, offset, page := ParsePaginationParams(url.Values{})
	assert.Equal(t, uint64(DefaultLimit), limit)
	assert.Equal(t, uint64(0), offset)
	assert.Equal(t, uint64(1), page)
}

func TestParsePaginationParams_PageToOffset(t *testing.T) {
	values := url.Values{"page": {"3"}, "limit": {"20"}}
	limit, offset, page := ParsePaginationParams(values)
	assert.Equal(t, uint64(20), limit)
	assert.Equal(t, uint64(40), offset)
	assert.Equal(t, uint64(3), page)
}

func TestParsePaginationParams_OffsetWins(t *testing.T) {
	values := url.Values{"offset": {"25"}, "limit": {"10"}}
	limit, offset, page := ParsePaginationParams(values)
	assert.Equal(t, uint64(10), limit)
	assert.Equal(t, uint64(25), offset)
	assert.Equal(t, uint64(3), page)
}

func TestParsePaginationParams_LimitTeto(t *testing.T) {
	values := url.Values{"limit": {"5000"}}
	limit, _, _ := ParsePaginationParams(values)
	assert.Equal(t, uint64(MaxLimit), limit)
}

func TestParsePaginationParams_ValoresInvalidos(t *testing.T) {
	values := url.Values{"limit": {"abc"}, "page": {"-1"}}
	limit, offset, page := ParsePaginationParams(values)
	assert.Equal(t, uint64(DefaultLimit), limit)
	assert.Equal(t, uint64(0), offset)
	assert.Equal(t, uint64(1), page)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, uint64(0), TotalPages(0, 10))
	assert.Equal(t, uint64(1), TotalPages(1, 10))
	assert.Equal(t, uint64(1), TotalPages(10, 10))
	assert.Equal(t, uint64(2), TotalPages(11, 10))
	assert.Equal(t, uint64(5), TotalPages(41, 10))
}
