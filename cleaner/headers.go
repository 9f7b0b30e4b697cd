package cleaner

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"github.com/pivolan/go_utils"

	"github.com/pivolan/sales_analyzer/apperrors"
	"github.com/pivolan/sales_analyzer/domain/models"
)

var (
	specialSymbols = regexp.MustCompile("[^a-zA-Z0-9]+")
	datePatterns   = []*regexp.Regexp{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),
		regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`),
		regexp.MustCompile(`^\d{4}/\d{2}/\d{2}$`),
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}[ T]\d{2}:\d{2}:\d{2}`),
	}
)

// canonicalHeader folds a header to lower-case ASCII letters and digits, so
// that " Date ", "DATE" and "Dáte" all match the Date column.
func canonicalHeader(header string) string {
	header = unidecode.Unidecode(strings.TrimSpace(header))
	return strings.ToLower(specialSymbols.ReplaceAllString(header, ""))
}

// resolveColumns maps every required column to the header that carries it in
// the file.
func resolveColumns(headers []string) (map[string]string, error) {
	byCanonical := make(map[string]string, len(headers))
	for _, h := range headers {
		key := canonicalHeader(h)
		if _, dup := byCanonical[key]; !dup {
			byCanonical[key] = h
		}
	}

	resolved := make(map[string]string, len(models.RequiredColumns))
	var missing []string
	for _, column := range models.RequiredColumns {
		actual, ok := byCanonical[canonicalHeader(column)]
		if !ok {
			missing = append(missing, column)
			continue
		}
		resolved[column] = actual
	}
	if len(missing) == 0 {
		return resolved, nil
	}

	if !looksLikeHeaderRow(headers) {
		return nil, apperrors.Schema("the first row looks like data, a header row with columns %s is required",
			strings.Join(models.RequiredColumns, ", "))
	}
	return nil, apperrors.Schema("required columns absent: %s", strings.Join(missing, ", "))
}

func looksLikeHeaderRow(row []string) bool {
	if len(row) == 0 {
		return false
	}
	headerLike := 0
	for _, field := range row {
		if isLikelyHeader(field) {
			headerLike++
		}
	}
	return float64(headerLike)/float64(len(row)) >= 0.5
}

func isLikelyHeader(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" || go_utils.InArray(text, []string{"NaN", "NA", "null"}) {
		return false
	}
	if _, err := strconv.ParseFloat(text, 64); err == nil {
		return false
	}
	for _, pattern := range datePatterns {
		if pattern.MatchString(text) {
			return false
		}
	}

	letters, others := 0, 0
	for _, r := range text {
		switch {
		case unicode.IsLetter(r):
			letters++
		case unicode.IsSpace(r):
		default:
			others++
		}
	}
	total := letters + others
	return total > 0 && letters > 0 && float64(letters)/float64(total) >= 0.3
}
