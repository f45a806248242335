package gridcsv

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsSource reads a value grid from a Google Sheets spreadsheet range
// using a service account credentials file. Trailing empty cells are
// truncated by the Sheets API, which surfaces here as short rows.
type SheetsSource struct {
	spreadsheetID   string
	readRange       string
	credentialsFile string
}

// NewSheetsSource creates a source for the given spreadsheet ID and A1
// notation range (e.g. "Sheet1!A1:Z100"), authenticated with the service
// account key at credentialsFile.
func NewSheetsSource(spreadsheetID, readRange, credentialsFile string) *SheetsSource {
	return &SheetsSource{
		spreadsheetID:   spreadsheetID,
		readRange:       readRange,
		credentialsFile: credentialsFile,
	}
}

// Values implements Source.
func (s *SheetsSource) Values(ctx context.Context) ([]RawRow, error) {
	service, err := sheets.NewService(ctx,
		option.WithCredentialsFile(s.credentialsFile),
		option.WithScopes(sheets.SpreadsheetsReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	resp, err := service.Spreadsheets.Values.Get(s.spreadsheetID, s.readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch range %s: %w", s.readRange, err)
	}

	rows := make([]RawRow, len(resp.Values))
	for i, row := range resp.Values {
		rows[i] = RawRow(row)
	}
	return rows, nil
}
