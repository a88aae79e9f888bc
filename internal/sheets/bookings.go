// Package sheets appends confirmed bookings to the crew's scheduling
// spreadsheet.
package sheets

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/sunsweeper/sunsweeper-ai-platform/internal/conversation"
	"github.com/sunsweeper/sunsweeper-ai-platform/pkg/logging"
)

// appender is the slice of the Sheets API we use; tests substitute it.
type appender interface {
	Append(ctx context.Context, spreadsheetID, a1Range string, values [][]any) error
}

type googleAppender struct {
	svc *sheetsapi.Service
}

func (a *googleAppender) Append(ctx context.Context, spreadsheetID, a1Range string, values [][]any) error {
	_, err := a.svc.Spreadsheets.Values.
		Append(spreadsheetID, a1Range, &sheetsapi.ValueRange{Values: values}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}

// BookingSheet appends one row per confirmed booking.
type BookingSheet struct {
	appender      appender
	spreadsheetID string
	a1Range       string
	logger        *logging.Logger
}

// NewBookingSheet builds a sheet writer authenticated with a service
// account credentials file.
func NewBookingSheet(ctx context.Context, credentialsFile, spreadsheetID, a1Range string, logger *logging.Logger) (*BookingSheet, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("sheets: spreadsheet ID required")
	}
	if a1Range == "" {
		a1Range = "Bookings!A:J"
	}
	if logger == nil {
		logger = logging.Default()
	}
	svc, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("sheets: failed to build service: %w", err)
	}
	return &BookingSheet{
		appender:      &googleAppender{svc: svc},
		spreadsheetID: spreadsheetID,
		a1Range:       a1Range,
		logger:        logger,
	}, nil
}

// AppendBooking writes the booking as one spreadsheet row.
func (s *BookingSheet) AppendBooking(ctx context.Context, booking conversation.BookingRecord) error {
	if err := s.appender.Append(ctx, s.spreadsheetID, s.a1Range, [][]any{bookingRow(booking)}); err != nil {
		s.logger.Error("sheets append failed", "error", err, "spreadsheet_id", s.spreadsheetID)
		return fmt.Errorf("sheets: append failed: %w", err)
	}
	s.logger.Info("booking appended to sheet", "spreadsheet_id", s.spreadsheetID, "client", booking.ClientName)
	return nil
}

// bookingRow renders the row in the column order the crew sheet uses.
func bookingRow(b conversation.BookingRecord) []any {
	return []any{
		b.CreatedAt.Format(time.RFC3339),
		b.ClientName,
		b.Phone,
		b.Email,
		b.Address,
		b.PanelCount,
		b.Location,
		b.RequestedDate,
		b.Time,
		conversation.FormatUSD(b.TotalUSD),
	}
}
