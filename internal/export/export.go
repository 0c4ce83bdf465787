package export

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"leaseintake/internal/models"

	"github.com/xuri/excelize/v2"
)

const sheet = "Submissions"

var headers = []string{
	"Timestamp",
	"Ticket",
	"Filename",
	"Email",
	"Phone",
	"Method",
	"Outcome",
	"Message",
	"Flagged Pages",
	"Duration (s)",
	"Trace",
}

// WriteSubmissionsXLSX writes subs to w as a workbook, newest first.
func WriteSubmissionsXLSX(w io.Writer, subs []models.Submission) error {
	rows := append([]models.Submission(nil), subs...)
	sort.SliceStable(rows, func(i, k int) bool { return rows[i].Timestamp.After(rows[k].Timestamp) })

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for r, s := range rows {
		row := r + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, s.Timestamp.UTC().Format(time.RFC3339))
		write(2, s.TicketID)
		write(3, s.Filename)
		write(4, s.Email)
		write(5, s.Phone)
		write(6, s.ContactMethod)
		write(7, s.Outcome)
		write(8, s.Message)
		write(9, joinPages(s.FlaggedPages))
		write(10, float64(s.DurationMS)/1000)
		write(11, s.TracePath)
	}

	_ = f.SetColWidth(sheet, "A", "A", 22)
	_ = f.SetColWidth(sheet, "B", "F", 16)
	_ = f.SetColWidth(sheet, "G", "G", 18)
	_ = f.SetColWidth(sheet, "H", "H", 60)
	_ = f.SetColWidth(sheet, "K", "K", 60)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

func joinPages(pages []int) string {
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = fmt.Sprint(p)
	}
	return strings.Join(parts, ", ")
}
