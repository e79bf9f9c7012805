package commands

import (
	"fmt"
	"strings"

	"github.com/fivetwenty-io/xmrest/internal/constants"
	"github.com/fivetwenty-io/xmrest/pkg/xmrest"
)

type condition struct {
	field  string
	value  string
	negate bool
}

func (c condition) matches(record Record) bool {
	equal := formatValue(record[c.field]) == c.value
	if c.negate {
		return !equal
	}

	return equal
}

// parseWhere turns "field=value" and "field!=value" clauses into a predicate
// that requires all of them. No clauses yields a nil predicate.
func parseWhere(clauses []string) (xmrest.Predicate[Record], error) {
	if len(clauses) == 0 {
		return nil, nil
	}

	conditions := make([]condition, 0, len(clauses))

	for _, clause := range clauses {
		cond, err := parseClause(clause)
		if err != nil {
			return nil, err
		}

		conditions = append(conditions, cond)
	}

	return func(record Record) bool {
		for _, cond := range conditions {
			if !cond.matches(record) {
				return false
			}
		}

		return true
	}, nil
}

func parseClause(clause string) (condition, error) {
	if field, value, ok := strings.Cut(clause, "!="); ok && field != "" {
		return condition{field: strings.TrimSpace(field), value: value, negate: true}, nil
	}

	field, value, ok := strings.Cut(clause, "=")
	if !ok || strings.TrimSpace(field) == "" {
		return condition{}, fmt.Errorf("%w: %q", constants.ErrInvalidWhereClause, clause)
	}

	return condition{field: strings.TrimSpace(field), value: value}, nil
}
