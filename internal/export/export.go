// Package export renders the task collection for download.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/adanyl0v/tasklist/internal/models"
)

var ErrUnknownFormat = errors.New("unknown export format")

const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatPDF  = "pdf"
)

const dueDateLayout = "2006-01-02 15:04"

// ContentType returns the MIME type of the given format.
func ContentType(format string) string {
	switch strings.ToLower(format) {
	case FormatJSON:
		return "application/json"
	case FormatCSV:
		return "text/csv"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

func Export(tasks []models.Task, format string, generatedAt time.Time) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatJSON:
		if tasks == nil {
			tasks = []models.Task{}
		}
		return json.MarshalIndent(tasks, "", "  ")
	case FormatCSV:
		return exportCSV(tasks)
	case FormatPDF:
		return exportPDF(tasks, generatedAt)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

func exportCSV(tasks []models.Task) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"id", "title", "due_date", "priority", "category", "status", "description"})
	for _, t := range tasks {
		_ = w.Write([]string{
			t.ID,
			t.Title,
			t.DueDate.UTC().Format(time.RFC3339),
			string(t.Priority),
			t.Category,
			string(t.Status),
			t.Description,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exportPDF(tasks []models.Task, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Task List")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(40, 6, fmt.Sprintf("Generated %s, %d task(s)", generatedAt.UTC().Format(dueDateLayout), len(tasks)))
	pdf.Ln(10)

	widths := []float64{70, 32, 20, 24, 34}
	pdf.SetFont("Arial", "B", 10)
	for i, header := range []string{"Title", "Due", "Priority", "Status", "Category"} {
		pdf.CellFormat(widths[i], 7, header, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, t := range tasks {
		row := []string{
			t.Title,
			t.DueDate.UTC().Format(dueDateLayout),
			string(t.Priority),
			string(t.Status),
			t.Category,
		}
		for i, cell := range row {
			pdf.CellFormat(widths[i], 7, tr(truncate(pdf, cell, widths[i]-2)), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
		if t.Description != "" {
			pdf.SetFont("Arial", "I", 9)
			pdf.MultiCell(0, 5, tr(t.Description), "LRB", "L", false)
			pdf.SetFont("Arial", "", 10)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// truncate shortens s so it fits into a cell of the given width.
func truncate(pdf *gofpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}
