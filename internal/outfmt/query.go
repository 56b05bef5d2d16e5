package outfmt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/itchyny/gojq"
)

type queryKey struct{}

// WithQuery adds a jq expression to the context
func WithQuery(ctx context.Context, query string) context.Context {
	return context.WithValue(ctx, queryKey{}, query)
}

// QueryFromContext retrieves the jq expression from context
func QueryFromContext(ctx context.Context) string {
	q, _ := ctx.Value(queryKey{}).(string)
	return q
}

// NormalizeExpression fixes shell-escaped operators in jq expressions.
// Zsh escapes ! to \! even in single quotes, breaking operators like !=.
func NormalizeExpression(expr string) string {
	return strings.ReplaceAll(strings.TrimSpace(expr), `\!`, `!`)
}

// ValidateQuery reports whether expr parses as a jq expression.
func ValidateQuery(expr string) error {
	if expr == "" {
		return nil
	}
	if _, err := gojq.Parse(NormalizeExpression(expr)); err != nil {
		return fmt.Errorf("invalid query expression: %w", err)
	}
	return nil
}

// ApplyQuery runs a jq expression over v. The value is round-tripped
// through JSON first so structs are seen with their JSON field names.
// A single result is returned as is; several are returned as a slice.
func ApplyQuery(v any, expr string) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, err
	}
	if expr == "" {
		return generic, nil
	}

	query, err := gojq.Parse(NormalizeExpression(expr))
	if err != nil {
		return nil, fmt.Errorf("invalid query expression: %w", err)
	}

	var results []any
	iter := query.Run(generic)
	for {
		out, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := out.(error); ok {
			return nil, fmt.Errorf("query error: %w", err)
		}
		results = append(results, out)
	}
	if len(results) == 1 {
		return results[0], nil
	}
	return results, nil
}
