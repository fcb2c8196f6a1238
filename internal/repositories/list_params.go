package repositories

import "strings"

// ListParams carries the paging, sorting and search query parameters shared
// by all list endpoints.
type ListParams struct {
	Offset int
	Limit  int
	Sort   string
	Order  string
	Search string
}

// Sanitized clamps paging values and restricts sort/order to safe columns so
// the values can be interpolated into an ORDER BY clause.
func (p ListParams) Sanitized(allowedSort ...string) ListParams {
	out := p
	if out.Offset < 0 {
		out.Offset = 0
	}
	if out.Limit <= 0 || out.Limit > 100 {
		out.Limit = 10
	}

	sortOK := false
	for _, col := range allowedSort {
		if out.Sort == col {
			sortOK = true
			break
		}
	}
	if !sortOK {
		out.Sort = "id"
	}

	switch strings.ToUpper(out.Order) {
	case "ASC":
		out.Order = "ASC"
	default:
		out.Order = "DESC"
	}
	return out
}

// OrderClause renders the sanitized sort as an ORDER BY expression.
func (p ListParams) OrderClause() string {
	return p.Sort + " " + p.Order
}
