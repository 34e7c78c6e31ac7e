package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var filterCols = []string{"City", "ListPrice", "BedroomsTotal", "PoolPrivateYN"}

func filterRow() map[string]string {
	return map[string]string{
		"City":          "Gardena",
		"ListPrice":     "500000",
		"BedroomsTotal": "3",
		"PoolPrivateYN": "",
	}
}

func TestMatchEquals(t *testing.T) {
	assert.True(t, Match(filterRow(), filterCols, Predicate{Field: "City", Op: "eq", Value: "gardena"}),
		"string comparison is case-insensitive")
	assert.False(t, Match(filterRow(), filterCols, Predicate{Field: "City", Op: "eq", Value: "Torrance"}))
	assert.True(t, Match(filterRow(), filterCols, Predicate{Field: "City", Op: "neq", Value: "Torrance"}))
}

func TestMatchContains(t *testing.T) {
	assert.True(t, Match(filterRow(), filterCols, Predicate{Field: "City", Op: "contains", Value: "arden"}))
	assert.False(t, Match(filterRow(), filterCols, Predicate{Field: "City", Op: "not_contains", Value: "arden"}))
}

func TestMatchNumeric(t *testing.T) {
	row := filterRow()
	assert.True(t, Match(row, filterCols, Predicate{Field: "beds", Op: "ge", Value: float64(3)}))
	assert.True(t, Match(row, filterCols, Predicate{Field: "price", Op: "lte", Value: float64(500000)}))
	assert.False(t, Match(row, filterCols, Predicate{Field: "price", Op: "lt", Value: float64(500000)}))
	assert.True(t, Match(row, filterCols, Predicate{Field: "price", Op: "gt", Value: "400000"}),
		"numeric value may arrive as a string")
}

func TestMatchNumericCoercionFailure(t *testing.T) {
	row := filterRow()
	row["ListPrice"] = "call for price"
	// Non-numeric cells always exclude the row for numeric operators.
	assert.False(t, Match(row, filterCols, Predicate{Field: "price", Op: "gt", Value: float64(1)}))
	assert.False(t, Match(row, filterCols, Predicate{Field: "price", Op: "lte", Value: float64(1e12)}))
	// And a non-numeric predicate value does the same.
	assert.False(t, Match(filterRow(), filterCols, Predicate{Field: "price", Op: "gt", Value: "cheap"}))
}

func TestMatchExists(t *testing.T) {
	assert.True(t, Match(filterRow(), filterCols, Predicate{Field: "City", Op: "exists"}))
	assert.False(t, Match(filterRow(), filterCols, Predicate{Field: "PoolPrivateYN", Op: "exists"}))
	assert.True(t, Match(filterRow(), filterCols, Predicate{Field: "PoolPrivateYN", Op: "not_exists"}))
}

func TestMatchUnresolvedColumnFailsClosed(t *testing.T) {
	assert.False(t, Match(filterRow(), filterCols, Predicate{Field: "warp drive", Op: "eq", Value: "x"}))
}

func TestMatchUnknownOperatorPassesOpen(t *testing.T) {
	// Deliberate asymmetry with the column-miss policy above.
	assert.True(t, Match(filterRow(), filterCols, Predicate{Field: "City", Op: "sounds_like", Value: "x"}))
}

func TestMatchVirtualAddress(t *testing.T) {
	row := map[string]string{"StreetNumber": "123", "StreetName": "Main", "City": "Gardena"}
	cols := []string{"StreetNumber", "StreetName", "City"}
	assert.True(t, Match(row, cols, Predicate{Field: "address", Op: "contains", Value: "main"}))
}

func TestMatchesAnd(t *testing.T) {
	preds := []Predicate{
		{Field: "City", Op: "eq", Value: "Gardena"},
		{Field: "beds", Op: "gte", Value: float64(3)},
	}
	assert.True(t, Matches(filterRow(), filterCols, preds))

	preds[1].Value = float64(4)
	assert.False(t, Matches(filterRow(), filterCols, preds))

	assert.True(t, Matches(filterRow(), filterCols, nil), "empty predicate list matches everything")
}
