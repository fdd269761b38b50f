package sheets

import (
	"context"
	"fmt"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

const scope = "https://www.googleapis.com/auth/spreadsheets"

// Client appends rows to one spreadsheet range.
type Client struct {
	svc           *sheetsapi.Service
	spreadsheetID string
	sheetRange    string
}

// NewClient authenticates with a service-account key (JSON bytes) and targets
// the given spreadsheet.
func NewClient(ctx context.Context, serviceAccountJSON []byte, spreadsheetID string) (*Client, error) {
	creds, err := google.JWTConfigFromJSON(serviceAccountJSON, scope)
	if err != nil {
		return nil, fmt.Errorf("parse service account key: %w", err)
	}

	svc, err := sheetsapi.NewService(ctx, option.WithHTTPClient(creds.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetRange:    "Sheet1!A:E",
	}, nil
}

func (c *Client) AppendRow(ctx context.Context, values []interface{}) error {
	body := &sheetsapi.ValueRange{
		Values: [][]interface{}{values},
	}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, c.sheetRange, body).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append row: %w", err)
	}
	return nil
}
