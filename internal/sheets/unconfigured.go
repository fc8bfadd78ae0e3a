package sheets

import (
	"context"
	"errors"
	"fmt"

	gsheets "google.golang.org/api/sheets/v4"
)

// UnconfiguredBackend stands in when the spreadsheet cannot be set up. Every
// operation fails with the setup error so callers report it per request
// instead of the process refusing to start.
type UnconfiguredBackend struct {
	err error
}

// NewUnconfiguredBackend wraps cause so it matches ErrConfiguration.
func NewUnconfiguredBackend(cause error) *UnconfiguredBackend {
	if !errors.Is(cause, ErrConfiguration) {
		cause = fmt.Errorf("%w: %v", ErrConfiguration, cause)
	}
	return &UnconfiguredBackend{err: cause}
}

// Err is the setup error every operation returns.
func (b *UnconfiguredBackend) Err() error {
	return b.err
}

func (b *UnconfiguredBackend) TabNames(ctx context.Context) ([]string, error) {
	return nil, b.err
}

func (b *UnconfiguredBackend) AddTab(ctx context.Context, title string) (int64, error) {
	return 0, b.err
}

func (b *UnconfiguredBackend) SheetID(ctx context.Context, title string) (int64, error) {
	return 0, b.err
}

func (b *UnconfiguredBackend) ReadRange(ctx context.Context, a1 string) ([][]string, error) {
	return nil, b.err
}

func (b *UnconfiguredBackend) WriteRange(ctx context.Context, a1 string, rows [][]any) error {
	return b.err
}

func (b *UnconfiguredBackend) AppendRows(ctx context.Context, a1 string, rows [][]any) error {
	return b.err
}

func (b *UnconfiguredBackend) Format(ctx context.Context, requests []*gsheets.Request) error {
	return b.err
}
