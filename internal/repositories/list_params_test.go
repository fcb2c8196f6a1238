package repositories_test

import (
	"testing"

	"schoolhub-server/internal/repositories"

	"github.com/stretchr/testify/assert"
)

func TestListParams_Sanitized(t *testing.T) {
	tests := []struct {
		name string
		in   repositories.ListParams
		want repositories.ListParams
	}{
		{
			"defaults applied to empty params",
			repositories.ListParams{},
			repositories.ListParams{Offset: 0, Limit: 10, Sort: "id", Order: "DESC"},
		},
		{
			"negative offset clamped",
			repositories.ListParams{Offset: -5, Limit: 20},
			repositories.ListParams{Offset: 0, Limit: 20, Sort: "id", Order: "DESC"},
		},
		{
			"oversized limit clamped",
			repositories.ListParams{Limit: 500},
			repositories.ListParams{Limit: 10, Sort: "id", Order: "DESC"},
		},
		{
			"allowed sort column kept",
			repositories.ListParams{Sort: "title", Order: "asc", Limit: 25},
			repositories.ListParams{Limit: 25, Sort: "title", Order: "ASC"},
		},
		{
			"unknown sort column falls back to id",
			repositories.ListParams{Sort: "password; DROP TABLE users", Limit: 25},
			repositories.ListParams{Limit: 25, Sort: "id", Order: "DESC"},
		},
		{
			"unknown order falls back to DESC",
			repositories.ListParams{Order: "sideways", Limit: 25},
			repositories.ListParams{Limit: 25, Sort: "id", Order: "DESC"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Sanitized("id", "title", "created_at")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestListParams_OrderClause(t *testing.T) {
	p := repositories.ListParams{Sort: "title", Order: "asc"}.Sanitized("title")
	assert.Equal(t, "title ASC", p.OrderClause())
}
