package export

import (
	"bytes"
	"testing"
	"time"

	"leaseintake/internal/models"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteSubmissionsXLSX(t *testing.T) {
	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	subs := []models.Submission{
		{TicketID: "T-old", Outcome: "approved", Timestamp: base, FlaggedPages: []int{2, 5}},
		{TicketID: "T-new", Outcome: "missing_dates", Timestamp: base.Add(time.Hour), DurationMS: 1500},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSubmissionsXLSX(&buf, subs))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "Ticket", rows[0][1])
	require.Equal(t, "T-new", rows[1][1])
	require.Equal(t, "1.5", rows[1][9])
	require.Equal(t, "T-old", rows[2][1])
	require.Equal(t, "2, 5", rows[2][8])
}

func TestWriteSubmissionsXLSXEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSubmissionsXLSX(&buf, nil))
	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
