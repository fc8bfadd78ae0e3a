package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/yukikurage/sitewalk-tasks/internal/config"
	"github.com/yukikurage/sitewalk-tasks/internal/metrics"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// GoogleBackend talks to the Google Sheets v4 API as a service account.
type GoogleBackend struct {
	srv           *gsheets.Service
	spreadsheetID string
	clientEmail   string
}

// NewGoogleBackend validates the sheet configuration and builds an
// authenticated Sheets client. The service account may be given as inline
// JSON (serverless deployments) or as a path to a key file.
func NewGoogleBackend(ctx context.Context, cfg config.SheetsConfig) (*GoogleBackend, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("%w: GOOGLE_SHEET_ID is not set", ErrConfiguration)
	}
	if strings.TrimSpace(cfg.ServiceAccount) == "" {
		return nil, fmt.Errorf("%w: GOOGLE_SERVICE_ACCOUNT_KEY is not set", ErrConfiguration)
	}

	keyJSON, err := loadServiceAccountKey(cfg.ServiceAccount)
	if err != nil {
		return nil, err
	}

	creds, err := google.CredentialsFromJSON(ctx, keyJSON, gsheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid service account key: %v", ErrConfiguration, err)
	}

	srv, err := gsheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets client: %w", err)
	}

	var key struct {
		ClientEmail string `json:"client_email"`
	}
	_ = json.Unmarshal(keyJSON, &key)

	return &GoogleBackend{
		srv:           srv,
		spreadsheetID: cfg.SpreadsheetID,
		clientEmail:   key.ClientEmail,
	}, nil
}

// ServiceAccountEmail is the identity the sheet has to be shared with.
func (b *GoogleBackend) ServiceAccountEmail() string {
	return b.clientEmail
}

func loadServiceAccountKey(value string) ([]byte, error) {
	value = strings.TrimSpace(value)
	if strings.HasPrefix(value, "{") {
		if !json.Valid([]byte(value)) {
			return nil, fmt.Errorf("%w: GOOGLE_SERVICE_ACCOUNT_KEY looks like JSON but does not parse; paste the entire key file content", ErrConfiguration)
		}
		return []byte(value), nil
	}

	path := filepath.Clean(strings.TrimPrefix(value, "./"))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read service account key file %s (serverless platforms need the JSON content inline): %v", ErrConfiguration, path, err)
	}
	return data, nil
}

func (b *GoogleBackend) TabNames(ctx context.Context) (names []string, err error) {
	done := metrics.TrackBackendCall("get_spreadsheet")
	defer func() { done(err) }()

	resp, err := b.srv.Spreadsheets.Get(b.spreadsheetID).
		Fields("sheets.properties").
		Context(ctx).
		Do()
	if err != nil {
		return nil, b.translate(err)
	}

	names = make([]string, 0, len(resp.Sheets))
	for _, s := range resp.Sheets {
		names = append(names, s.Properties.Title)
	}
	return names, nil
}

func (b *GoogleBackend) SheetID(ctx context.Context, title string) (id int64, err error) {
	done := metrics.TrackBackendCall("get_spreadsheet")
	defer func() { done(err) }()

	resp, err := b.srv.Spreadsheets.Get(b.spreadsheetID).
		Fields("sheets.properties").
		Context(ctx).
		Do()
	if err != nil {
		return 0, b.translate(err)
	}
	for _, s := range resp.Sheets {
		if s.Properties.Title == title {
			return s.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrTabNotFound, title)
}

func (b *GoogleBackend) AddTab(ctx context.Context, title string) (id int64, err error) {
	done := metrics.TrackBackendCall("add_tab")
	defer func() { done(err) }()

	resp, err := b.srv.Spreadsheets.BatchUpdate(b.spreadsheetID, &gsheets.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheets.Request{{
			AddSheet: &gsheets.AddSheetRequest{
				Properties: &gsheets.SheetProperties{Title: title},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return 0, b.translate(err)
	}
	if len(resp.Replies) == 0 || resp.Replies[0].AddSheet == nil {
		return 0, fmt.Errorf("add tab %q: empty reply", title)
	}
	return resp.Replies[0].AddSheet.Properties.SheetId, nil
}

func (b *GoogleBackend) ReadRange(ctx context.Context, a1 string) (rows [][]string, err error) {
	done := metrics.TrackBackendCall("read")
	defer func() { done(err) }()

	resp, err := b.srv.Spreadsheets.Values.Get(b.spreadsheetID, a1).Context(ctx).Do()
	if err != nil {
		return nil, b.translate(err)
	}

	rows = make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		rows[i] = make([]string, len(row))
		for j, cell := range row {
			rows[i][j] = fmt.Sprint(cell)
		}
	}
	return rows, nil
}

func (b *GoogleBackend) WriteRange(ctx context.Context, a1 string, rows [][]any) (err error) {
	done := metrics.TrackBackendCall("write")
	defer func() { done(err) }()

	_, err = b.srv.Spreadsheets.Values.Update(b.spreadsheetID, a1, &gsheets.ValueRange{Values: rows}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	return b.translate(err)
}

func (b *GoogleBackend) AppendRows(ctx context.Context, a1 string, rows [][]any) (err error) {
	done := metrics.TrackBackendCall("append")
	defer func() { done(err) }()

	_, err = b.srv.Spreadsheets.Values.Append(b.spreadsheetID, a1, &gsheets.ValueRange{Values: rows}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return b.translate(err)
}

func (b *GoogleBackend) Format(ctx context.Context, requests []*gsheets.Request) (err error) {
	if len(requests) == 0 {
		return nil
	}
	done := metrics.TrackBackendCall("format")
	defer func() { done(err) }()

	_, err = b.srv.Spreadsheets.BatchUpdate(b.spreadsheetID, &gsheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	return b.translate(err)
}

// translate maps API failures onto the package sentinels. A missing tab in a
// range surfaces as a 400 "Unable to parse range".
func (b *GoogleBackend) translate(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	switch {
	case apiErr.Code == http.StatusNotFound, apiErr.Code == http.StatusForbidden:
		return fmt.Errorf("%w: %s; original error: %v", ErrBackendNotFound, notFoundHint(b.spreadsheetID), err)
	case apiErr.Code == http.StatusBadRequest && strings.Contains(apiErr.Message, "Unable to parse range"):
		return fmt.Errorf("%w: %v", ErrTabNotFound, err)
	}
	return err
}
