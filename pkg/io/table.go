package io

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/waterfall/pkg/errors"
	"github.com/matzehuels/waterfall/pkg/waterfall"
)

// Columns is the header written by the tabular encoders.
var Columns = []string{"name", "value", "class", "color", "start", "end"}

// ReadCSV decodes rows from CSV with a header line.
func ReadCSV(r io.Reader) (Document, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode csv")
	}
	data, err := parseTable(records)
	if err != nil {
		return Document{}, err
	}
	return Document{Data: data}, nil
}

// ReadXLSX decodes rows from the first sheet of a spreadsheet.
func ReadXLSX(r io.Reader) (Document, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "open spreadsheet")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Document{}, errors.New(errors.ErrCodeInvalidFormat, "spreadsheet has no sheets")
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read sheet %s", sheets[0])
	}
	data, err := parseTable(records)
	if err != nil {
		return Document{}, err
	}
	return Document{Data: data}, nil
}

// parseTable maps a header row plus records onto raw rows. Blank lines are
// skipped; line numbers in errors are 1-based and count the header.
func parseTable(records [][]string) ([]waterfall.RawItem, error) {
	if len(records) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "missing header row")
	}
	index := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := index["name"]; !ok {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "header has no name column")
	}

	cell := func(rec []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	num := func(rec []string, col string, line int) (*float64, error) {
		s := cell(rec, col)
		if s == "" {
			return nil, nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "line %d: %s %q is not a number", line, col, s)
		}
		return &v, nil
	}

	var rows []waterfall.RawItem
	for i, rec := range records[1:] {
		line := i + 2
		if blank(rec) {
			continue
		}
		row := waterfall.RawItem{
			Name:  cell(rec, "name"),
			Class: cell(rec, "class"),
			Color: cell(rec, "color"),
		}
		var err error
		if row.Value, err = num(rec, "value", line); err != nil {
			return nil, err
		}
		if row.Start, err = num(rec, "start", line); err != nil {
			return nil, err
		}
		if row.End, err = num(rec, "end", line); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// tableRows renders rows under the Columns header.
func tableRows(data []waterfall.RawItem) [][]string {
	out := make([][]string, 0, len(data)+1)
	out = append(out, Columns)
	for _, r := range data {
		out = append(out, []string{r.Name, fmtNum(r.Value), r.Class, r.Color, fmtNum(r.Start), fmtNum(r.End)})
	}
	return out
}

func fmtNum(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// WriteCSV encodes the rows of doc as CSV. Options are not representable
// and are dropped.
func WriteCSV(doc Document, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(tableRows(doc.Data)); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode csv")
	}
	return nil
}

// WriteXLSX encodes the rows of doc as a single-sheet spreadsheet. Numeric
// cells are written as numbers.
func WriteXLSX(doc Document, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	for i, rec := range tableRows(doc.Data) {
		cellName, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "cell name")
		}
		row := make([]any, len(rec))
		for j, s := range rec {
			row[j] = s
			if i > 0 && s != "" {
				if v, err := strconv.ParseFloat(s, 64); err == nil && (j == 1 || j >= 4) {
					row[j] = v
				}
			}
		}
		if err := f.SetSheetRow(sheet, cellName, &row); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "write row %d", i+1)
		}
	}
	if _, err := f.WriteTo(w); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode spreadsheet")
	}
	return nil
}
