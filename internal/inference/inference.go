// Package inference assigns a semantic type to every column of a table by
// majority vote over per-cell classification.
package inference

import (
	"strings"

	"rapihcli/internal/identity"
	"rapihcli/internal/parsing"
	"rapihcli/pkg/contracts/domain"
)

// classifier pairs a predicate with the type it votes for. The list is
// evaluated top to bottom and the first match wins, because the categories
// overlap: a NIK digit string also parses as a plain number, a serial date is
// numeric, and so on.
type classifier struct {
	Type  domain.ColumnType
	Match func(string) bool
}

// classifiers is the fixed priority order. Do not reorder without revisiting
// every overlap noted above.
var classifiers = []classifier{
	{domain.ColumnTypeEmail, parsing.IsValidEmail},
	{domain.ColumnTypeNationalID, func(s string) bool {
		return len(parsing.DigitsOnly(s)) == identity.NIKLength
	}},
	{domain.ColumnTypeTaxID, func(s string) bool {
		return len(parsing.DigitsOnly(s)) == identity.NPWPLength
	}},
	{domain.ColumnTypeCurrency, parsing.IsCurrency},
	{domain.ColumnTypePhone, parsing.IsValidIndonesianPhone},
	{domain.ColumnTypePercentage, parsing.IsPercentage},
	{domain.ColumnTypeDate, func(s string) bool {
		// Bare numerals vote number, not date: ParseDate accepts
		// spreadsheet serials, but serial conversion only makes sense for
		// cells inside a column the textual dates already identified.
		if _, numeric := parsing.ParseNumber(s); numeric {
			return false
		}
		_, ok := parsing.ParseDate(s)
		return ok
	}},
	{domain.ColumnTypeNumber, func(s string) bool {
		_, ok := parsing.ParseNumber(s)
		return ok
	}},
	{domain.ColumnTypeBoolean, parsing.IsBoolean},
}

// ClassifyCell returns the semantic type of a single non-empty cell.
func ClassifyCell(value string) domain.ColumnType {
	for _, c := range classifiers {
		if c.Match(value) {
			return c.Type
		}
	}
	return domain.ColumnTypeString
}

// Infer assigns a ColumnTypeInfo to every header. The column type is the
// per-cell classification with the highest vote count; confidence is
// votes/total. A column with no non-empty values gets type empty with
// confidence 1.
func Infer(headers []string, rows []domain.Row) map[string]domain.ColumnTypeInfo {
	result := make(map[string]domain.ColumnTypeInfo, len(headers))
	for _, header := range headers {
		result[header] = inferColumn(header, rows)
	}
	return result
}

func inferColumn(header string, rows []domain.Row) domain.ColumnTypeInfo {
	distribution := make(map[domain.ColumnType]int)
	total := 0
	for _, row := range rows {
		value := strings.TrimSpace(row.Cells[header])
		if value == "" {
			continue
		}
		distribution[ClassifyCell(value)]++
		total++
	}

	if total == 0 {
		return domain.ColumnTypeInfo{
			Type:         domain.ColumnTypeEmpty,
			Confidence:   1,
			Distribution: distribution,
			SampleSize:   0,
		}
	}

	best := domain.ColumnTypeString
	bestCount := -1
	// Resolve vote ties by classifier priority so results are deterministic.
	for _, c := range append(classifiers, classifier{Type: domain.ColumnTypeString}) {
		if count := distribution[c.Type]; count > bestCount {
			best = c.Type
			bestCount = count
		}
	}

	return domain.ColumnTypeInfo{
		Type:         best,
		Confidence:   float64(bestCount) / float64(total),
		Distribution: distribution,
		SampleSize:   total,
	}
}
