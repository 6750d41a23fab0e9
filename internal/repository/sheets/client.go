package sheets

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/acai-manager/internal/config"
)

// Appender is the spreadsheet surface used by the sales mirror.
type Appender interface {
	AppendRow(ctx context.Context, sheetRange string, values []interface{}) error
}

// Client appends rows to one spreadsheet through the Google Sheets API.
type Client struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewClient authenticates with a service account credentials file.
func NewClient(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SpreadsheetID == "" {
		return nil, errors.New("spreadsheet id must be provided")
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &Client{service: service, spreadsheetID: cfg.SpreadsheetID, logger: logger}, nil
}

// AppendRow adds values as a new row below the data found in sheetRange.
// Values are written RAW so customer names are never evaluated as formulas.
func (c *Client) AppendRow(ctx context.Context, sheetRange string, values []interface{}) error {
	if sheetRange == "" {
		return errors.New("sheet range must not be empty")
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}
	_, err := c.service.Spreadsheets.Values.Append(c.spreadsheetID, sheetRange, payload).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append row into range %s: %w", sheetRange, err)
	}

	c.logger.Debug("row appended to sheet", zap.String("range", sheetRange))
	return nil
}
