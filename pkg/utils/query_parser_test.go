package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQuery_Completo(t *testing.T) {
	values := url.Values{
		"search":                     {"  homicídio  "},
		"filter[status]":             {"EM_ANALISE"},
		"filter[servico_pericial_id]": {"2"},
		"sort":                       {"-numero"},
		"page":                       {"2"},
		"limit":                      {"25"},
	}

	params := ParseQuery(values)

	assert.Equal(t, "homicídio", params.Search)
	assert.Equal(t, "EM_ANALISE", params.Filters["status"])
	assert.Equal(t, "2", params.Filters["servico_pericial_id"])
	assert.Equal(t, "numero", params.SortBy)
	assert.Equal(t, "desc", params.SortOrder)
	assert.Equal(t, uint64(25), params.Limit)
	assert.Equal(t, uint64(25), params.Offset)
	assert.Equal(t, uint64(2), params.Page)
}

func TestParseQuery_OrdenacaoPadrao(t *testing.T) {
	params := ParseQuery(url.Values{})
	assert.Equal(t, "created_at", params.SortBy)
	assert.Equal(t, "desc", params.SortOrder)
	assert.Empty(t, params.Filters)
}

func TestParseQuery_OrdenacaoAscendente(t *testing.T) {
	params := ParseQuery(url.Values{"sort": {"numero"}})
	assert.Equal(t, "numero", params.SortBy)
	assert.Equal(t, "asc", params.SortOrder)
}
