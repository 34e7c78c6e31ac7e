package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var testColumns = []string{
	"StreetNumber", "StreetName", "City", "ListPrice",
	"BedroomsTotal", "LivingArea", "PostalCode", "HighSchoolDistrict",
}

func TestResolveExactWins(t *testing.T) {
	// A verbatim column name must short-circuit every other strategy.
	res := Resolve(testColumns, "ListPrice")
	assert.True(t, res.OK)
	assert.Equal(t, "ListPrice", res.Column)
	assert.False(t, res.Virtual)
}

func TestResolveSynonym(t *testing.T) {
	res := Resolve(testColumns, "beds")
	assert.True(t, res.OK)
	assert.Equal(t, "BedroomsTotal", res.Column)

	res = Resolve(testColumns, "zip code")
	assert.Equal(t, "PostalCode", res.Column)

	res = Resolve(testColumns, "SQFT")
	assert.Equal(t, "LivingArea", res.Column, "synonym lookup is case-insensitive")
}

func TestResolveVirtualAddress(t *testing.T) {
	res := Resolve(testColumns, "address")
	assert.True(t, res.OK)
	assert.True(t, res.Virtual)
	assert.Empty(t, res.Column)
}

func TestResolveCaseInsensitive(t *testing.T) {
	res := Resolve(testColumns, "listprice")
	assert.True(t, res.OK)
	assert.Equal(t, "ListPrice", res.Column)
}

func TestResolveSubstring(t *testing.T) {
	res := Resolve(testColumns, "schooldist")
	assert.True(t, res.OK)
	assert.Equal(t, "HighSchoolDistrict", res.Column)
}

func TestResolvePriorityOrder(t *testing.T) {
	// "city" exists both as an exact column and as a substring of other
	// names; exact must win. With a column literally named "beds" the
	// synonym table must not rewrite it.
	cols := []string{"beds", "BedroomsTotal", "City"}
	res := Resolve(cols, "beds")
	assert.Equal(t, "beds", res.Column)

	res = Resolve(cols, "City")
	assert.Equal(t, "City", res.Column)
}

func TestResolveMiss(t *testing.T) {
	res := Resolve(testColumns, "flux capacitor")
	assert.False(t, res.OK)

	res = Resolve(testColumns, "")
	assert.False(t, res.OK)

	res = Resolve(testColumns, "   ")
	assert.False(t, res.OK)
}
