package aida

import (
	"encoding/csv"
	"errors"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// numericCell matches cells that coerce to a number: optional surrounding
// whitespace, optional leading minus, digits with an optional fraction and
// an optional exponent. A leading '+' stays text.
var numericCell = regexp.MustCompile(`^\s*-?(\d+\.?|\.\d+|\d+\.\d+)([eE][-+]?\d+)?\s*$`)

// numericLimit is the exclusive magnitude bound of numeric coercion;
// magnitudes at or above 2^53 stay text.
const numericLimit = 1 << 53

// CellKind is the coerced type of a cell.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
	CellBool
)

func (k CellKind) String() string {
	switch k {
	case CellText:
		return "text"
	case CellNumber:
		return "number"
	case CellBool:
		return "bool"
	default:
		return "empty"
	}
}

// Cell is one CSV field after best-effort coercion.
// Raw always holds the original field text.
type Cell struct {
	Kind CellKind
	Raw  string
	Num  float64
}

// Number returns the numeric value of the cell and whether it is numeric.
func (c Cell) Number() (float64, bool) {
	return c.Num, c.Kind == CellNumber
}

// IsText reports whether the cell stayed textual after coercion.
func (c Cell) IsText() bool {
	return c.Kind == CellText
}

// RawRow is one CSV line split into cells. It has no identity beyond position.
type RawRow []Cell

// Joined returns the row's raw cells joined by commas.
func (r RawRow) Joined() string {
	parts := make([]string, len(r))
	for i, c := range r {
		parts[i] = c.Raw
	}
	return strings.Join(parts, ",")
}

// NewCell coerces a raw field.
func NewCell(raw string) Cell {
	switch {
	case raw == "":
		return Cell{Kind: CellEmpty}
	case raw == "true" || raw == "TRUE":
		return Cell{Kind: CellBool, Raw: raw, Num: 1}
	case raw == "false" || raw == "FALSE":
		return Cell{Kind: CellBool, Raw: raw}
	}

	if numericCell.MatchString(raw) {
		if f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil &&
			f > -numericLimit && f < numericLimit {
			return Cell{Kind: CellNumber, Raw: raw, Num: f}
		}
	}
	return Cell{Kind: CellText, Raw: raw}
}

// ParseRows splits text into rows. Empty lines are skipped and rows may have
// differing lengths. Records the tokenizer rejects are skipped and counted in
// malformed rather than failing the parse.
func ParseRows(text string) (rows []RawRow, malformed int, err error) {
	text = strings.TrimPrefix(text, "\ufeff")

	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				malformed++
				continue
			}
			return nil, malformed, err
		}

		row := make(RawRow, len(record))
		for i, field := range record {
			row[i] = NewCell(field)
		}
		rows = append(rows, row)
	}

	return rows, malformed, nil
}
