package records

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Field identifies one logical column of a history file.
type Field int

const (
	FieldDate Field = iota
	FieldPrimary
	FieldTwoDigit
	FieldPrefix
	FieldSuffix
	numFields
)

// fieldAliases lists the accepted header names per field, primary name first.
// The spaced Thai variants are the headers written by Export.
var fieldAliases = [numFields][]string{
	FieldDate:     {"date", "วันที่"},
	FieldPrimary:  {"first_prize", "รางวัลที่1", "รางวัลที่ 1"},
	FieldTwoDigit: {"2digit", "เลขท้าย2ตัว", "เลขท้าย 2 ตัว"},
	FieldPrefix:   {"3digit_prefix", "เลขหน้า3ตัว", "เลขหน้า 3 ตัว"},
	FieldSuffix:   {"3digit_suffix", "เลขท้าย3ตัว", "เลขท้าย 3 ตัว"},
}

// ExportHeaders are the localized headers written by Export and ExportXLSX,
// in column order.
var ExportHeaders = []string{"วันที่", "รางวัลที่ 1", "เลขหน้า 3 ตัว", "เลขท้าย 3 ตัว", "เลขท้าย 2 ตัว"}

// Aliases returns the accepted header names for a field.
func Aliases(f Field) []string {
	out := make([]string, len(fieldAliases[f]))
	copy(out, fieldAliases[f])
	return out
}

// normalizeHeader trims and NFC-normalizes a header cell.
func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, bom)
	return norm.NFC.String(strings.TrimSpace(h))
}

// columnMap resolves, once per file, which columns can supply each field.
// Columns are listed in alias order so the first alias wins.
type columnMap [numFields][]int

func newColumnMap(headers []string) columnMap {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		// A repeated header name keeps its last column.
		index[normalizeHeader(h)] = i
	}

	var cm columnMap
	for f := Field(0); f < numFields; f++ {
		for _, alias := range fieldAliases[f] {
			if col, ok := index[norm.NFC.String(alias)]; ok {
				cm[f] = append(cm[f], col)
			}
		}
	}
	return cm
}

// lookup returns the first non-empty value among the field's columns.
func (cm columnMap) lookup(f Field, values []string) string {
	for _, col := range cm[f] {
		if col < len(values) && values[col] != "" {
			return values[col]
		}
	}
	return ""
}
