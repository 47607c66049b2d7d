package sheets

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/shieldwrapindia/shieldwrap-backend/pkg/config"
)

// Appender is the narrow surface the mirror worker needs.
type Appender interface {
	Append(ctx context.Context, rows [][]interface{}) error
}

// Client appends rows to a single configured spreadsheet range.
type Client struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetRange    string
}

// New builds a Sheets client from config. Credentials resolve in order:
// inline JSON, credentials file path, then ambient application-default creds.
func New(ctx context.Context, cfg config.SheetsConfig, gcp config.GCPConfig) (*Client, error) {
	if cfg.SpreadsheetID == "" {
		return nil, errors.New("spreadsheet id is required")
	}
	if cfg.SheetRange == "" {
		return nil, errors.New("sheet range is required")
	}

	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}
	switch {
	case gcp.CredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(gcp.CredentialsJSON)))
	case gcp.ApplicationCredentials != "":
		opts = append(opts, option.WithCredentialsFile(gcp.ApplicationCredentials))
	}

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("building sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		sheetRange:    cfg.SheetRange,
	}, nil
}

// Append appends the rows after the last non-empty row of the configured range.
func (c *Client) Append(ctx context.Context, rows [][]interface{}) error {
	if c == nil || c.svc == nil {
		return errors.New("sheets client not initialized")
	}
	if len(rows) == 0 {
		return nil
	}

	body := &sheets.ValueRange{Values: rows}
	_, err := c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, c.sheetRange, body).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("appending to spreadsheet: %w", err)
	}
	return nil
}
