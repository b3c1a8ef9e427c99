package option

import (
	"fmt"
	"strings"

	"github.com/lancekit/lancekit/pkg/db/pagination"
	"gorm.io/gorm"
)

// QueryOption mutates a gorm statement before execution.
type QueryOption interface {
	Apply(*gorm.DB) *gorm.DB
}

type queryOptionFunc func(*gorm.DB) *gorm.DB

func (f queryOptionFunc) Apply(db *gorm.DB) *gorm.DB { return f(db) }

type Operator string

const (
	EQ       Operator = "="
	GTE      Operator = ">="
	LTE      Operator = "<="
	GT       Operator = ">"
	LT       Operator = "<"
	Contains Operator = "contains"
)

// Condition is a single where clause. Contains maps to a case-insensitive
// substring match, everything else to the SQL operator it names.
type Condition struct {
	Field    string
	Operator Operator
	Value    any
}

func ApplyOperator(cond Condition) QueryOption {
	return queryOptionFunc(func(db *gorm.DB) *gorm.DB {
		field := sanitizeField(cond.Field)
		if field == "" {
			return db
		}
		switch cond.Operator {
		case Contains:
			pattern := "%" + strings.ToLower(fmt.Sprintf("%v", cond.Value)) + "%"
			return db.Where(fmt.Sprintf("lower(%s) LIKE ?", field), pattern)
		case EQ, GTE, LTE, GT, LT:
			return db.Where(fmt.Sprintf("%s %s ?", field, cond.Operator), cond.Value)
		default:
			return db
		}
	})
}

type QuerySortBy struct {
	Field     string
	Direction string
	// Allow restricts sortable columns; unknown fields fall back to created_at.
	Allow map[string]bool
}

func WithSortBy(sort QuerySortBy) QueryOption {
	return queryOptionFunc(func(db *gorm.DB) *gorm.DB {
		field := sanitizeField(sort.Field)
		if field == "" || (sort.Allow != nil && !sort.Allow[field]) {
			field = "created_at"
		}
		direction := strings.ToLower(strings.TrimSpace(sort.Direction))
		if direction != "asc" {
			direction = "desc"
		}
		return db.Order(fmt.Sprintf("%s %s, id %s", field, direction, direction))
	})
}

func ApplyPagination(page pagination.Pagination) QueryOption {
	return queryOptionFunc(func(db *gorm.DB) *gorm.DB {
		limit := page.Limit
		if limit <= 0 {
			limit = pagination.DefaultLimit
		}
		if limit > pagination.MaxLimit {
			limit = pagination.MaxLimit
		}
		stmt := db.Limit(limit)
		if page.Offset > 0 {
			stmt = stmt.Offset(page.Offset)
		}
		return stmt
	})
}

// sanitizeField guards against injection through caller-supplied column names.
func sanitizeField(field string) string {
	field = strings.TrimSpace(field)
	for _, r := range field {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_' {
			continue
		}
		return ""
	}
	return field
}
