package query

import (
	"strconv"
	"strings"
)

// Predicate is one (column, operator, value) test from the planner. Value
// arrives as whatever JSON type the model produced (string, number, null).
type Predicate struct {
	Field string `json:"column"`
	Op    string `json:"operator"`
	Value any    `json:"value"`
}

// opAliases normalizes the operator spellings seen from planner output onto
// canonical tokens. Anything not in this table is left as-is and hits the
// permissive default in Match.
var opAliases = map[string]string{
	"eq": "eq", "equals": "eq", "=": "eq", "==": "eq",
	"neq": "neq", "not_equals": "neq", "not-equals": "neq", "!=": "neq", "<>": "neq",
	"contains": "contains", "like": "contains",
	"not_contains": "not_contains", "not-contains": "not_contains",
	"gt": "gt", ">": "gt", "greater_than": "gt", "greater-than": "gt",
	"gte": "gte", "ge": "gte", ">=": "gte", "greater_or_equal": "gte", "greater-or-equal": "gte",
	"lt": "lt", "<": "lt", "less_than": "lt", "less-than": "lt",
	"lte": "lte", "le": "lte", "<=": "lte", "less_or_equal": "lte", "less-or-equal": "lte",
	"exists": "exists", "not_exists": "not_exists", "not-exists": "not_exists",
}

// Match reports whether a row passes one predicate.
//
// An unresolvable column fails closed (the row is excluded); an unrecognized
// operator passes open (every row matches). The asymmetry is deliberate and
// answer sets depend on it; do not unify the two defaults.
func Match(row map[string]string, columns []string, p Predicate) bool {
	res := Resolve(columns, p.Field)
	if !res.OK {
		return false
	}

	var cell string
	if res.Virtual {
		cell = FormatAddress(row)
	} else {
		cell = row[res.Column]
	}

	op := opAliases[strings.ToLower(strings.TrimSpace(p.Op))]
	switch op {
	case "eq":
		return strings.EqualFold(cell, valueText(p.Value))
	case "neq":
		return !strings.EqualFold(cell, valueText(p.Value))
	case "contains":
		return strings.Contains(strings.ToLower(cell), strings.ToLower(valueText(p.Value)))
	case "not_contains":
		return !strings.Contains(strings.ToLower(cell), strings.ToLower(valueText(p.Value)))
	case "gt", "gte", "lt", "lte":
		a, aok := toNumber(cell)
		b, bok := toNumber(p.Value)
		if !aok || !bok {
			return false
		}
		switch op {
		case "gt":
			return a > b
		case "gte":
			return a >= b
		case "lt":
			return a < b
		default:
			return a <= b
		}
	case "exists":
		return strings.TrimSpace(cell) != ""
	case "not_exists":
		return strings.TrimSpace(cell) == ""
	default:
		return true
	}
}

// Matches is the row-level AND over a predicate list; an empty list matches
// every row.
func Matches(row map[string]string, columns []string, preds []Predicate) bool {
	for _, p := range preds {
		if !Match(row, columns, p) {
			return false
		}
	}
	return true
}

func valueText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func toNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
