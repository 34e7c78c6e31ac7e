package query

import (
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// defaultState is used when StateOrProvince is blank; the feeds this service
// runs against are regional exports that omit it.
const defaultState = "CA"

// NoDataSentinel is returned by FormatProfile when every column is blank.
const NoDataSentinel = "No data available for this listing."

// notAvailable marks an absent value in explicit per-field views.
const notAvailable = "not available"

var currencyColumns = map[string]bool{
	"ListPrice":         true,
	"OriginalListPrice": true,
	"CurrentPrice":      true,
	"ClosePrice":        true,
}

var areaColumns = map[string]bool{
	"LivingArea":        true,
	"LotSizeSquareFeet": true,
}

// countColumns are the numeric columns beyond currency and area; together
// they are the fields whose absence gets the explicit marker in per-field
// views.
var countColumns = map[string]bool{
	"BedroomsTotal":         true,
	"BathroomsTotalInteger": true,
	"DaysOnMarket":          true,
	"YearBuilt":             true,
}

func isNumericColumn(column string) bool {
	return currencyColumns[column] || areaColumns[column] || countColumns[column]
}

// FormatAddress synthesizes a display address from the row's street
// components. Empty components are dropped without leaving stray separators;
// a row with no street, city, or zip yields "".
func FormatAddress(row map[string]string) string {
	street := joinNonEmpty(" ",
		row["StreetNumber"],
		row["StreetDirPrefix"],
		row["StreetName"],
		row["StreetSuffix"],
	)
	city := strings.TrimSpace(row["City"])
	zip := strings.TrimSpace(row["PostalCode"])

	if street == "" && city == "" && zip == "" {
		return ""
	}

	state := strings.TrimSpace(row["StateOrProvince"])
	if state == "" {
		state = defaultState
	}

	return joinNonEmpty(", ", street, city, joinNonEmpty(" ", state, zip))
}

// FormatValue renders one cell for display, applying per-column rules:
// currency columns get "$" and grouped digits, area columns a " sq ft"
// suffix. Non-numeric raw values pass through unchanged; blanks stay blank.
func FormatValue(column, raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	switch {
	case currencyColumns[column]:
		if n, ok := groupDigits(trimmed); ok {
			return "$" + n
		}
	case areaColumns[column]:
		if n, ok := groupDigits(trimmed); ok {
			return n + " sq ft"
		}
	}
	return raw
}

// FormatProfile renders every non-blank column as "Name: value" lines in
// column order.
func FormatProfile(row map[string]string, columns []string) string {
	var lines []string
	for _, col := range columns {
		if strings.TrimSpace(row[col]) == "" {
			continue
		}
		lines = append(lines, col+": "+FormatValue(col, row[col]))
	}
	if len(lines) == 0 {
		return NoDataSentinel
	}
	return strings.Join(lines, "\n")
}

// summaryFields is the fixed subset shown when a single listing is requested
// without explicit fields.
var summaryFields = []struct {
	label  string
	column string
}{
	{"Price", "ListPrice"},
	{"Beds", "BedroomsTotal"},
	{"Baths", "BathroomsTotalInteger"},
	{"Living area", "LivingArea"},
	{"Days on market", "DaysOnMarket"},
	{"Year built", "YearBuilt"},
	{"School district", "HighSchoolDistrict"},
	{"Property type", "PropertySubType"},
	{"Remarks", "PublicRemarks"},
}

// FormatSummary renders the address followed by the commonly wanted fields,
// omitting any that are blank.
func FormatSummary(row map[string]string) string {
	lines := []string{FormatAddress(row)}
	for _, f := range summaryFields {
		v := FormatValue(f.column, row[f.column])
		if strings.TrimSpace(v) == "" {
			continue
		}
		lines = append(lines, f.label+": "+v)
	}
	return strings.Join(lines, "\n")
}

// FormatFields renders the requested friendly fields of one row, one per
// line. Unresolvable names fall back to the literal column name. Absent
// numeric fields render an explicit marker; other absent fields stay empty.
func FormatFields(row map[string]string, columns []string, fields []string) string {
	var lines []string
	for _, friendly := range fields {
		friendly = strings.TrimSpace(friendly)
		if friendly == "" {
			continue
		}
		res := Resolve(columns, friendly)
		if res.Virtual {
			lines = append(lines, "Address: "+FormatAddress(row))
			continue
		}
		col := res.Column
		if !res.OK {
			col = friendly
		}
		v := FormatValue(col, row[col])
		if strings.TrimSpace(v) == "" {
			if isNumericColumn(col) {
				v = notAvailable
			} else {
				v = ""
			}
		}
		lines = append(lines, strings.TrimRight(friendly+": "+v, " "))
	}
	return strings.Join(lines, "\n")
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// groupDigits renders a numeric string with thousands separators. The bool
// reports whether the input parsed as a number at all.
func groupDigits(raw string) (string, bool) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return "", false
	}
	if v == float64(int64(v)) {
		return humanize.Comma(int64(v)), true
	}
	return humanize.Commaf(v), true
}
