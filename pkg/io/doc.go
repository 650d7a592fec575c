// Package io reads and writes waterfall chart documents.
//
// # Overview
//
// A document is the rows of one chart plus optional chart options. Four
// encodings are supported and chosen by file extension:
//
//   - .json: an array of rows, or {"data": [...], "options": {...}}
//   - .toml: [options] table and [[data]] array of tables
//   - .csv:  header row naming the columns, one row per line
//   - .xlsx: same table layout as CSV on the first sheet
//
// # Row Fields
//
// Required:
//   - name: Category label, unique within the chart
//   - value: Signed change (cumulative charts)
//   - start, end: Explicit bar range (custom charts)
//
// Optional:
//   - class: Extra CSS class for the bar group
//   - color: Bar colour, overriding the sign-based default
//
// In CSV and spreadsheets, columns are matched by header name regardless of
// case or order, and an empty cell leaves the field unset.
//
// # Import
//
//	doc, err := io.Import("quarterly.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	items, err := waterfall.Adapt(doc.Data, cfg)
//
// # Export
//
// [Export] writes a document in the format implied by the path. The
// adapted items of a chart can be written with [WriteItems].
package io
