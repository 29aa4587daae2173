package records

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/rewired-gh/lottoracle/internal/models"
)

// Rows converts records to table rows in ExportHeaders order.
func Rows(draws []models.DrawRecord) [][]string {
	rows := make([][]string, len(draws))
	for i := range draws {
		d := &draws[i]
		rows[i] = []string{d.Date, d.PrimaryValue, d.PrefixField(), d.SuffixField(), d.TwoDigitValue}
	}
	return rows
}

// Export writes records as CSV with localized headers. The UTF-8 BOM lets
// spreadsheet applications recognize the Thai headers.
func Export(w io.Writer, draws []models.DrawRecord) error {
	if _, err := io.WriteString(w, bom); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(ExportHeaders); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, row := range Rows(draws) {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// ExportBytes returns the Export output as a byte slice.
func ExportBytes(draws []models.DrawRecord) ([]byte, error) {
	var buf bytes.Buffer
	if err := Export(&buf, draws); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportFilename is the download name for an export made at t.
func ExportFilename(t time.Time, ext string) string {
	return fmt.Sprintf("lottery_data_%s.%s", t.Format("2006-01-02"), ext)
}
