package google

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/harrisonrobin/leaguetasks/pkg/auth"
	"github.com/harrisonrobin/leaguetasks/pkg/model"
	"github.com/harrisonrobin/leaguetasks/pkg/sheet"
)

// DefaultRange covers the four task columns of the first sheet.
const DefaultRange = "Sheet1!A:D"

// SheetsSource reads task rows from a Google Sheets range.
type SheetsSource struct {
	srv           *sheets.Service
	spreadsheetID string
	readRange     string
}

// NewClient authorizes with the cached OAuth token and returns a source for
// the given spreadsheet range.
func NewClient(ctx context.Context, spreadsheetID, readRange string, logger *log.Logger) (*SheetsSource, error) {
	client, err := auth.GetClient(ctx, auth.Scopes, logger)
	if err != nil {
		return nil, err
	}
	return NewSheetsSource(ctx, spreadsheetID, readRange, option.WithHTTPClient(client))
}

// NewSheetsSource creates a source with explicit client options.
func NewSheetsSource(ctx context.Context, spreadsheetID, readRange string, opts ...option.ClientOption) (*SheetsSource, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is empty")
	}
	if readRange == "" {
		readRange = DefaultRange
	}

	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets client: %w", err)
	}
	return &SheetsSource{srv: srv, spreadsheetID: spreadsheetID, readRange: readRange}, nil
}

// Rows implements sheet.Source.
func (s *SheetsSource) Rows(ctx context.Context) ([]model.Row, error) {
	resp, err := s.srv.Spreadsheets.Values.Get(s.spreadsheetID, s.readRange).
		MajorDimension("ROWS").
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to read range %s: %w", s.readRange, err)
	}

	records := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		rec := make([]string, len(row))
		for j, v := range row {
			if v != nil {
				rec[j] = fmt.Sprint(v)
			}
		}
		records[i] = rec
	}
	return sheet.FromRecords(records)
}

var _ sheet.Source = (*SheetsSource)(nil)
