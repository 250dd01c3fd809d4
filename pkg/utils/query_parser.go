package utils

import (
	"net/url"
	"strings"
)

// QueryParams agrega busca, filtros nomeados (filter[campo]=valor), ordenação
// e paginação vindos da query string das listagens.
type QueryParams struct {
	Filters   map[string]string
	Search    string
	SortBy    string
	SortOrder string
	Limit     uint64
	Offset    uint64
	Page      uint64
}

func ParseQuery(query url.Values) QueryParams {
	limit, offset, page := ParsePaginationParams(query)

	params := QueryParams{
		Filters:   make(map[string]string),
		Limit:     limit,
		Offset:    offset,
		Page:      page,
		SortBy:    "created_at",
		SortOrder: "desc",
	}

	for key, values := range query {
		if strings.HasPrefix(key, "filter[") && strings.HasSuffix(key, "]") && len(values) > 0 {
			filterKey := key[7 : len(key)-1]
			params.Filters[filterKey] = values[0]
		}
	}

	params.Search = strings.TrimSpace(query.Get("search"))

	if sort := query.Get("sort"); sort != "" {
		if strings.HasPrefix(sort, "-") {
			params.SortOrder = "desc"
			params.SortBy = sort[1:]
		} else {
			params.SortOrder = "asc"
			params.SortBy = sort
		}
	}

	return params
}
