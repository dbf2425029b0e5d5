package models

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseListOptions(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  ListOptions
	}{
		{
			name:  "defaults",
			query: "",
			want:  ListOptions{Page: 1, PageSize: DefaultPageSize, Sort: "created_at", Dir: "desc"},
		},
		{
			name:  "explicit paging and search",
			query: "page=3&page_size=25&q=netflix",
			want:  ListOptions{Query: "netflix", Page: 3, PageSize: 25, Sort: "created_at", Dir: "desc"},
		},
		{
			name:  "allowed sort field",
			query: "sort=name&dir=asc",
			want:  ListOptions{Page: 1, PageSize: DefaultPageSize, Sort: "name", Dir: "asc"},
		},
		{
			name:  "unknown sort falls back to default",
			query: "sort=password_hash",
			want:  ListOptions{Page: 1, PageSize: DefaultPageSize, Sort: "created_at", Dir: "desc"},
		},
		{
			name:  "page size capped",
			query: "page_size=1000",
			want:  ListOptions{Page: 1, PageSize: MaxPageSize, Sort: "created_at", Dir: "desc"},
		},
		{
			name:  "invalid page ignored",
			query: "page=-5&page_size=abc",
			want:  ListOptions{Page: 1, PageSize: DefaultPageSize, Sort: "created_at", Dir: "desc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			assert.NoError(t, err)

			got := ParseListOptions(values, "created_at", "desc", "created_at", "name")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestListOptions_Offset(t *testing.T) {
	assert.Equal(t, 0, ListOptions{Page: 1, PageSize: 10}.Offset())
	assert.Equal(t, 20, ListOptions{Page: 3, PageSize: 10}.Offset())
}

func TestHasPaging(t *testing.T) {
	assert.False(t, HasPaging(url.Values{}))
	assert.True(t, HasPaging(url.Values{"page": {"2"}}))
	assert.True(t, HasPaging(url.Values{"page_size": {"5"}}))
	assert.True(t, HasPaging(url.Values{"q": {"netflix"}}))
	assert.False(t, HasPaging(url.Values{"sort": {"name"}}))
}
