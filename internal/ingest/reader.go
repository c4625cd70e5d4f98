package ingest

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/openlabor/wagedex/internal/domain"
)

// Header names of the columns the pipeline consumes. Bound to positions
// once against the header row; rows are never looked up by name.
const (
	colJobTitle = "JOB_TITLE"
	colCity     = "WORKSITE_CITY_1"
	colState    = "WORKSITE_STATE_1"
	colWage     = "WAGE_RATE_OF_PAY_FROM_1"
	colUnit     = "WAGE_UNIT_OF_PAY_1"
)

// columns holds the resolved positions of the required columns.
type columns struct {
	title int
	city  int
	state int
	wage  int
	unit  int
}

// resolveColumns binds each required header name to its position by exact
// match. Any absent name makes the whole sheet unusable.
func resolveColumns(header []string) (columns, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		if _, seen := idx[name]; !seen {
			idx[name] = i
		}
	}

	var cols columns
	for _, bind := range []struct {
		name string
		dst  *int
	}{
		{colJobTitle, &cols.title},
		{colCity, &cols.city},
		{colState, &cols.state},
		{colWage, &cols.wage},
		{colUnit, &cols.unit},
	} {
		pos, ok := idx[bind.name]
		if !ok {
			return columns{}, fmt.Errorf("%w: %s", domain.ErrMissingColumn, bind.name)
		}
		*bind.dst = pos
	}
	return cols, nil
}

// rawRow is one data row projected onto the required columns.
type rawRow struct {
	title string
	city  string
	state string
	wage  string
	unit  string
}

// rowSource streams raw rows one pass, front to back. The callback
// returns false to stop early.
type rowSource interface {
	Read(cb func(row rawRow) bool) error
}

// sheetReader streams a spreadsheet's active sheet. One-pass: the
// underlying row iterator is consumed as it goes.
type sheetReader struct {
	file *excelize.File
}

// openSheet opens the spreadsheet at path.
func openSheet(path string) (*sheetReader, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	return &sheetReader{file: f}, nil
}

// Close releases the underlying file.
func (r *sheetReader) Close() error {
	return r.file.Close()
}

// Read resolves the header from the first row, then feeds every following
// row to cb. Rows narrower than the rightmost required column still
// project, with missing cells read as empty.
func (r *sheetReader) Read(cb func(row rawRow) bool) error {
	sheet := r.file.GetSheetName(r.file.GetActiveSheetIndex())
	rows, err := r.file.Rows(sheet)
	if err != nil {
		return fmt.Errorf("iterate sheet %s: %w", sheet, err)
	}
	defer rows.Close()

	var cols columns
	resolved := false
	for rows.Next() {
		cells, err := rows.Columns()
		if err != nil {
			return fmt.Errorf("read row: %w", err)
		}

		if !resolved {
			cols, err = resolveColumns(cells)
			if err != nil {
				return err
			}
			resolved = true
			continue
		}

		if !cb(projectRow(cells, cols)) {
			return nil
		}
	}
	if err := rows.Error(); err != nil {
		return fmt.Errorf("iterate rows: %w", err)
	}
	if !resolved {
		return fmt.Errorf("%w: sheet %s has no header row", domain.ErrMissingColumn, sheet)
	}
	return nil
}

func projectRow(cells []string, cols columns) rawRow {
	return rawRow{
		title: cell(cells, cols.title),
		city:  cell(cells, cols.city),
		state: cell(cells, cols.state),
		wage:  cell(cells, cols.wage),
		unit:  cell(cells, cols.unit),
	}
}

func cell(cells []string, i int) string {
	if i < len(cells) {
		return cells[i]
	}
	return ""
}
