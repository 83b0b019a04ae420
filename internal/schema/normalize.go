package schema

import (
	"strings"
	"time"

	"github.com/KaramelBytes/contractboard-cli/internal/dataset"
)

// missingMarkers are raw cell values read as missing in text columns.
var missingMarkers = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-NaN": {}, "-nan": {}, "<NA>": {},
	"N/A": {}, "NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

func isMissing(s string) bool {
	_, ok := missingMarkers[strings.TrimSpace(s)]
	return ok
}

// Normalize types a raw table according to the column map. It returns a new
// dataset and never mutates raw.
//
// The year-month column is kept as text, and two derived columns are appended:
// the zero-padded text form and the calendar date of the first of that month
// (null when malformed). Configured numeric columns are coerced to float64;
// cells that do not convert become null and are counted in Losses. Every other
// column, including ones the map does not know, is carried through as categorical.
func Normalize(raw *dataset.Table, cm ColumnMap, opt CoerceOptions) *Normalized {
	out := &Normalized{Map: cm, Losses: map[string]int{}}
	if raw == nil {
		return out
	}
	out.Name = raw.Name
	out.rows = raw.Len()

	ymName, hasYM := cm.Ref(YearMonth).Name()
	if hasYM {
		if _, ok := raw.Index(ymName); !ok {
			hasYM = false
		}
	}
	numeric := make(map[string]bool)
	for _, c := range cm.Numeric() {
		if name, ok := cm.Ref(c).Name(); ok {
			numeric[name] = true
		}
	}

	for j, name := range raw.Header {
		var col *Column
		switch {
		case hasYM && name == ymName:
			col = textColumn(name, RoleTemporal, raw, j)
		case numeric[name]:
			var lost int
			col, lost = numericColumn(name, raw, j, opt)
			if lost > 0 {
				out.Losses[name] = lost
			}
		default:
			col = textColumn(name, RoleCategorical, raw, j)
		}
		out.add(col)
	}

	if hasYM {
		src, _ := out.Lookup(ymName)
		text, date := yearMonthColumns(src, derivedName(ymName, "STR"), derivedName(ymName, "DATE"))
		out.add(text)
		out.add(date)
		out.Map = out.Map.with(YearMonthText, Available(text.Name)).with(YearMonthDate, Available(date.Name))
	}
	return out
}

func textColumn(name string, role Role, raw *dataset.Table, j int) *Column {
	n := raw.Len()
	c := &Column{Name: name, Role: role, text: make([]string, n), valid: make([]bool, n)}
	for i, row := range raw.Rows {
		v := cell(row, j)
		if isMissing(v) {
			continue
		}
		c.text[i] = v
		c.valid[i] = true
	}
	return c
}

// cell returns row[j], or a blank cell when a hand-built row is short.
func cell(row []string, j int) string {
	if j < len(row) {
		return row[j]
	}
	return ""
}

func numericColumn(name string, raw *dataset.Table, j int, opt CoerceOptions) (*Column, int) {
	n := raw.Len()
	c := &Column{Name: name, Role: RoleNumeric, nums: make([]float64, n), valid: make([]bool, n)}
	lost := 0
	for i, row := range raw.Rows {
		v := cell(row, j)
		f, ok := parseNumeric(v, opt)
		if !ok {
			if !isMissing(v) {
				lost++
			}
			continue
		}
		c.nums[i] = f
		c.valid[i] = true
	}
	return c, lost
}

func yearMonthColumns(src *Column, textName, dateName string) (*Column, *Column) {
	n := src.Len()
	text := &Column{Name: textName, Role: RoleCategorical, text: make([]string, n), valid: make([]bool, n)}
	date := &Column{Name: dateName, Role: RoleDerived, dates: make([]time.Time, n), valid: make([]bool, n)}
	for i := 0; i < n; i++ {
		v, ok := src.Text(i)
		if !ok {
			continue
		}
		text.text[i] = padYearMonth(v)
		text.valid[i] = true
		if t, ok := parseYearMonth(v); ok {
			date.dates[i] = t
			date.valid[i] = true
		}
	}
	return text, date
}

// derivedName follows the naming style of the source column: YEARMONTH gives
// YEARMONTHDATE, YEAR_MONTH gives YEAR_MONTH_DATE.
func derivedName(base, suffix string) string {
	if strings.Contains(base, "_") {
		return base + "_" + suffix
	}
	return base + suffix
}
