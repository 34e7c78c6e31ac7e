package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listingchat/internal/store"
)

func lookupStore() *store.Store {
	cols := []string{"StreetNumber", "StreetName", "StreetSuffix", "City", "ListPrice", "BedroomsTotal"}
	return store.New(cols, []store.Row{
		{"StreetNumber": "123", "StreetName": "Main", "StreetSuffix": "St", "City": "Gardena", "ListPrice": "500000", "BedroomsTotal": "3"},
		{"StreetNumber": "456", "StreetName": "Oak", "StreetSuffix": "Ave", "City": "Torrance", "ListPrice": "750000", "BedroomsTotal": "4"},
		{"StreetNumber": "123", "StreetName": "Main Street Annex", "StreetSuffix": "St", "City": "Gardena", "ListPrice": "400000", "BedroomsTotal": "2"},
	})
}

func TestFilterRowsOrderAndIdempotence(t *testing.T) {
	s := lookupStore()
	preds := []Predicate{{Field: "City", Op: "eq", Value: "Gardena"}}

	first := FilterRows(s, preds)
	second := FilterRows(s, preds)
	assert.Equal(t, []int{0, 2}, first, "results preserve table order")
	assert.Equal(t, first, second, "re-running the same filter yields the same rows")
}

func TestFilterRowsEmptyPredicates(t *testing.T) {
	s := lookupStore()
	assert.Equal(t, []int{0, 1, 2}, FilterRows(s, nil))
}

func TestFilterRowsScenario(t *testing.T) {
	cols := []string{"StreetNumber", "StreetName", "StreetSuffix", "City", "PostalCode", "ListPrice", "BedroomsTotal"}
	s := store.New(cols, []store.Row{{
		"StreetNumber": "123", "StreetName": "Main", "StreetSuffix": "St",
		"City": "Gardena", "PostalCode": "90247",
		"ListPrice": "500000", "BedroomsTotal": "3",
	}})

	got := FilterRows(s, []Predicate{{Field: "beds", Op: "ge", Value: float64(3)}})
	require.Equal(t, []int{0}, got)
	assert.Equal(t, "$500,000", FormatValue("ListPrice", s.Row(0)["ListPrice"]))
}

func TestFilterRowsEmptyStore(t *testing.T) {
	s := store.New(nil, nil)
	assert.Empty(t, FilterRows(s, []Predicate{{Field: "beds", Op: "gte", Value: float64(1)}}))
	assert.Empty(t, FilterRows(s, nil))
}

func TestBestAddressMatch(t *testing.T) {
	s := lookupStore()

	i, ok := BestAddressMatch(s, "456 Oak Ave")
	require.True(t, ok)
	assert.Equal(t, 1, i)
}

func TestBestAddressMatchPrefersShortest(t *testing.T) {
	cols := []string{"StreetNumber", "StreetName", "StreetSuffix", "City"}
	s := store.New(cols, []store.Row{
		{"StreetNumber": "123", "StreetName": "Main", "StreetSuffix": "St", "City": "Gardena Heights"},
		{"StreetNumber": "123", "StreetName": "Main", "StreetSuffix": "St", "City": "Gardena"},
	})

	// The query text matches both synthesized addresses; the tightest
	// (shortest) one must win, not the first superstring hit.
	i, ok := BestAddressMatch(s, "123 Main St, Gardena")
	require.True(t, ok)
	assert.Equal(t, 1, i)
}

func TestBestAddressMatchNormalization(t *testing.T) {
	s := lookupStore()

	i, ok := BestAddressMatch(s, "456 OAK ave., torrance")
	require.True(t, ok)
	assert.Equal(t, 1, i)

	// Full synthesized address including the defaulted state also hits.
	i, ok = BestAddressMatch(s, "456 Oak Ave, Torrance, CA")
	require.True(t, ok)
	assert.Equal(t, 1, i)
}

func TestBestAddressMatchMiss(t *testing.T) {
	s := lookupStore()
	_, ok := BestAddressMatch(s, "789 Nowhere Blvd")
	assert.False(t, ok)

	_, ok = BestAddressMatch(s, "")
	assert.False(t, ok)

	_, ok = BestAddressMatch(store.New(nil, nil), "123 Main St")
	assert.False(t, ok)
}
