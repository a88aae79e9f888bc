package sheets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunsweeper/sunsweeper-ai-platform/internal/conversation"
	"github.com/sunsweeper/sunsweeper-ai-platform/pkg/logging"
)

type fakeAppender struct {
	spreadsheetID string
	a1Range       string
	values        [][]any
	err           error
}

func (f *fakeAppender) Append(ctx context.Context, spreadsheetID, a1Range string, values [][]any) error {
	f.spreadsheetID = spreadsheetID
	f.a1Range = a1Range
	f.values = values
	return f.err
}

func sampleBooking() conversation.BookingRecord {
	return conversation.BookingRecord{
		ServiceID:     "solar_panel_cleaning",
		ClientName:    "Sarah Jones",
		Address:       "123 Main Street",
		PanelCount:    30,
		Location:      "ground_mount",
		Phone:         "555-123-4567",
		Email:         "sarah@example.com",
		RequestedDate: "monday",
		Time:          "10:00",
		TotalUSD:      283.5,
		CreatedAt:     time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC),
	}
}

func TestAppendBooking(t *testing.T) {
	fake := &fakeAppender{}
	sheet := &BookingSheet{
		appender:      fake,
		spreadsheetID: "sheet-1",
		a1Range:       "Bookings!A:J",
		logger:        logging.Default(),
	}

	err := sheet.AppendBooking(context.Background(), sampleBooking())
	require.NoError(t, err)

	assert.Equal(t, "sheet-1", fake.spreadsheetID)
	require.Len(t, fake.values, 1)
	row := fake.values[0]
	require.Len(t, row, 10)
	assert.Equal(t, "2026-03-02T12:00:00Z", row[0])
	assert.Equal(t, "Sarah Jones", row[1])
	assert.Equal(t, 30, row[5])
	assert.Equal(t, "$283.50", row[9])
}

func TestAppendBookingError(t *testing.T) {
	fake := &fakeAppender{err: errors.New("quota exceeded")}
	sheet := &BookingSheet{
		appender:      fake,
		spreadsheetID: "sheet-1",
		a1Range:       "Bookings!A:J",
		logger:        logging.Default(),
	}

	err := sheet.AppendBooking(context.Background(), sampleBooking())
	assert.ErrorContains(t, err, "quota exceeded")
}
