// Package sheets is the thin transport to the spreadsheet service. It knows
// about tabs, A1 ranges and cell values; it knows nothing about tasks.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gsheets "google.golang.org/api/sheets/v4"
)

var (
	// ErrConfiguration means the spreadsheet id or credentials are missing or unusable.
	ErrConfiguration = errors.New("spreadsheet backend is not configured")
	// ErrBackendNotFound means the spreadsheet does not exist or the
	// service account has not been granted access to it.
	ErrBackendNotFound = errors.New("spreadsheet not found")
	// ErrTabNotFound means a range referenced a tab that does not exist.
	ErrTabNotFound = errors.New("tab not found")
)

// Backend is the set of spreadsheet operations the store needs. Values are
// written with user-entered semantics, so strings beginning with "=" are
// formulas.
type Backend interface {
	// TabNames lists the titles of every tab in the spreadsheet.
	TabNames(ctx context.Context) ([]string, error)

	// AddTab creates an empty tab and returns its numeric sheet id.
	AddTab(ctx context.Context, title string) (int64, error)

	// SheetID resolves a tab title to its numeric sheet id.
	SheetID(ctx context.Context, title string) (int64, error)

	// ReadRange returns the formatted cell values of an A1 range. Trailing
	// empty cells and rows are omitted.
	ReadRange(ctx context.Context, a1 string) ([][]string, error)

	// WriteRange overwrites the cells of an A1 range.
	WriteRange(ctx context.Context, a1 string, rows [][]any) error

	// AppendRows appends rows after the last non-empty row of the range's table.
	AppendRows(ctx context.Context, a1 string, rows [][]any) error

	// Format applies structural and formatting requests in one batch.
	Format(ctx context.Context, requests []*gsheets.Request) error
}

// Range builds an A1 range for a tab, quoting the title so names with spaces
// and punctuation survive.
func Range(tab, cells string) string {
	return "'" + strings.ReplaceAll(tab, "'", "''") + "'!" + cells
}

// ColumnLetter converts a zero-based column index to its A1 letter(s).
func ColumnLetter(index int) string {
	letters := ""
	for n := index + 1; n > 0; n = (n - 1) / 26 {
		letters = string(rune('A'+(n-1)%26)) + letters
	}
	return letters
}

// RowRange is the A1 range covering columns [0, columns) of a single 1-based row.
func RowRange(tab string, row, columns int) string {
	return Range(tab, fmt.Sprintf("A%d:%s%d", row, ColumnLetter(columns-1), row))
}

// ColumnsRange is the open-ended A1 range covering columns [0, columns).
func ColumnsRange(tab string, columns int) string {
	return Range(tab, "A:"+ColumnLetter(columns-1))
}

// notFoundHint is appended to ErrBackendNotFound so operators see the likely fixes.
func notFoundHint(spreadsheetID string) string {
	return fmt.Sprintf("check: 1) the sheet id is correct (current: %s), 2) the sheet is shared with the service account email, 3) the sheet exists", spreadsheetID)
}
