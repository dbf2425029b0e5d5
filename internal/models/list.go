package models

import (
	"net/url"
	"strconv"
	"strings"
)

// Пределы пагинации для всех списковых ручек.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ListOptions — параметры пагинации, сортировки и поиска для списковых запросов.
// Поле Sort всегда содержит значение из allow-списка, Dir — "asc" или "desc".
type ListOptions struct {
	Query    string
	Page     int
	PageSize int
	Sort     string
	Dir      string
}

// ParseListOptions разбирает query-параметры q, page, page_size, sort, dir.
// Неизвестное поле сортировки заменяется на defaultSort, значения страниц
// приводятся к допустимым границам.
func ParseListOptions(values url.Values, defaultSort, defaultDir string, allowedSorts ...string) ListOptions {
	opts := ListOptions{
		Query:    strings.TrimSpace(values.Get("q")),
		Page:     1,
		PageSize: DefaultPageSize,
		Sort:     defaultSort,
		Dir:      defaultDir,
	}

	if page, err := strconv.Atoi(values.Get("page")); err == nil && page > 1 {
		opts.Page = page
	}
	if size, err := strconv.Atoi(values.Get("page_size")); err == nil && size > 0 {
		opts.PageSize = size
	}
	if opts.PageSize > MaxPageSize {
		opts.PageSize = MaxPageSize
	}

	sort := values.Get("sort")
	for _, allowed := range allowedSorts {
		if sort == allowed {
			opts.Sort = sort
			break
		}
	}

	switch strings.ToLower(values.Get("dir")) {
	case "asc":
		opts.Dir = "asc"
	case "desc":
		opts.Dir = "desc"
	}

	return opts
}

// Offset возвращает смещение для SQL-запроса.
func (o ListOptions) Offset() int {
	return (o.Page - 1) * o.PageSize
}

// HasPaging сообщает, запросил ли клиент пагинированный ответ.
// Списки сервисов и выписок без параметров пагинации возвращаются целиком.
func HasPaging(values url.Values) bool {
	return values.Has("page") || values.Has("page_size") || values.Has("q")
}

// ListResult — унифицированный конверт пагинированного ответа.
type ListResult[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}
