package loader

import (
	"strconv"
	"strings"
	"time"

	"github.com/pivolan/go_utils"
)

const inferenceSampleRows = 50000

// typesWeight orders the detectable types; a column takes the heaviest type
// seen in any of its cells.
var typesWeight = []string{"", "datetime", "date", "int", "float", "string"}

var dateTimeLayouts = []string{
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
}

// IsMissing reports whether a raw cell is one of the NaN tokens.
func IsMissing(value string) bool {
	return go_utils.InArray(strings.TrimSpace(value), NaNValues)
}

func detectCellType(value string) string {
	value = strings.TrimSpace(value)
	if IsMissing(value) {
		return ""
	}
	for _, layout := range dateTimeLayouts {
		if _, err := time.Parse(layout, value); err == nil {
			return "datetime"
		}
	}
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, value); err == nil {
			return "date"
		}
	}
	if _, err := strconv.ParseInt(value, 10, 64); err == nil {
		return "int"
	}
	if _, err := strconv.ParseFloat(value, 64); err == nil {
		return "float"
	}
	return "string"
}

// inferColumnType scans up to inferenceSampleRows cells. Columns with no
// values at all are reported as string.
func inferColumnType(values []string) string {
	current := ""
	for i, value := range values {
		if i >= inferenceSampleRows {
			break
		}
		t := detectCellType(value)
		if searchStrings(typesWeight, t) > searchStrings(typesWeight, current) {
			current = t
		}
	}
	if current == "" {
		return "string"
	}
	return current
}

func searchStrings(a []string, x string) int {
	for i, s := range a {
		if s == x {
			return i
		}
	}
	return -1
}

// DateLayouts lists every layout accepted for date cells, most specific first.
func DateLayouts() []string {
	layouts := make([]string, 0, len(dateTimeLayouts)+len(dateLayouts))
	layouts = append(layouts, dateTimeLayouts...)
	return append(layouts, dateLayouts...)
}
