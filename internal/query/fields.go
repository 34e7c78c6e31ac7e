package query

import "strings"

// Resolution is the outcome of mapping a user-facing field name onto the
// loaded table. Virtual means the field is the synthesized address, which
// exists in no single column.
type Resolution struct {
	Column  string
	Virtual bool
	OK      bool
}

// virtualField is the synonym-table sentinel for "no real column, use the
// synthesized address instead".
const virtualField = ""

// synonyms maps lowercase friendly names to real column names. Values equal
// to virtualField route to the address pseudo-field.
var synonyms = map[string]string{
	"address":         virtualField,
	"location":        virtualField,
	"beds":            "BedroomsTotal",
	"bedrooms":        "BedroomsTotal",
	"baths":           "BathroomsTotalInteger",
	"bathrooms":       "BathroomsTotalInteger",
	"sqft":            "LivingArea",
	"square feet":     "LivingArea",
	"area":            "LivingArea",
	"size":            "LivingArea",
	"lot size":        "LotSizeSquareFeet",
	"price":           "ListPrice",
	"list price":      "ListPrice",
	"cost":            "ListPrice",
	"zip":             "PostalCode",
	"zip code":        "PostalCode",
	"postal code":     "PostalCode",
	"city":            "City",
	"year":            "YearBuilt",
	"year built":      "YearBuilt",
	"age":             "YearBuilt",
	"dom":             "DaysOnMarket",
	"days on market":  "DaysOnMarket",
	"school district": "HighSchoolDistrict",
	"district":        "HighSchoolDistrict",
	"type":            "PropertySubType",
	"property type":   "PropertySubType",
	"status":          "StandardStatus",
	"description":     "PublicRemarks",
	"remarks":         "PublicRemarks",
}

// strategy is one step of the resolution cascade. Steps run in order and the
// first hit wins; the order is load-bearing (a substring hit must never
// shadow an exact or synonym hit).
type strategy struct {
	name string
	fn   func(columns []string, friendly string) (Resolution, bool)
}

var strategies = []strategy{
	{"exact", resolveExact},
	{"synonym", resolveSynonym},
	{"fold", resolveFold},
	{"substring", resolveSubstring},
}

// Resolve maps a friendly field name to a column via the cascade. A miss is
// not an error: callers degrade to the address pseudo-field, to the literal
// name, or to an empty value.
func Resolve(columns []string, friendly string) Resolution {
	friendly = strings.TrimSpace(friendly)
	if friendly == "" {
		return Resolution{}
	}
	for _, st := range strategies {
		if res, ok := st.fn(columns, friendly); ok {
			return res
		}
	}
	return Resolution{}
}

func resolveExact(columns []string, friendly string) (Resolution, bool) {
	for _, col := range columns {
		if col == friendly {
			return Resolution{Column: col, OK: true}, true
		}
	}
	return Resolution{}, false
}

func resolveSynonym(_ []string, friendly string) (Resolution, bool) {
	col, ok := synonyms[strings.ToLower(friendly)]
	if !ok {
		return Resolution{}, false
	}
	if col == virtualField {
		return Resolution{Virtual: true, OK: true}, true
	}
	return Resolution{Column: col, OK: true}, true
}

func resolveFold(columns []string, friendly string) (Resolution, bool) {
	for _, col := range columns {
		if strings.EqualFold(col, friendly) {
			return Resolution{Column: col, OK: true}, true
		}
	}
	return Resolution{}, false
}

func resolveSubstring(columns []string, friendly string) (Resolution, bool) {
	needle := strings.ToLower(friendly)
	for _, col := range columns {
		if strings.Contains(strings.ToLower(col), needle) {
			return Resolution{Column: col, OK: true}, true
		}
	}
	return Resolution{}, false
}
