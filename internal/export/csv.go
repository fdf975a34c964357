// Package export renders transactions as CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/dvloznov/expense-tracker/internal/domain"
)

// Header is the column order of every exported file.
var Header = []string{"id", "date", "description", "location", "type", "category", "amount"}

// WriteCSV writes a header row and one row per transaction, in the given order.
func WriteCSV(w io.Writer, txns []domain.Transaction) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("error writing header: %w", err)
	}

	for _, tx := range txns {
		record := []string{
			tx.ID,
			tx.Date.String(),
			tx.Description,
			tx.Location,
			string(tx.Type),
			string(tx.Category),
			tx.Amount.StringFixed(2),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("error writing transaction %s: %w", tx.ID, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("error flushing writer: %w", err)
	}
	return nil
}

// WriteFile creates filename and writes the transactions to it, prefixed
// with a UTF-8 BOM so spreadsheet tools detect the encoding.
func WriteFile(filename string, txns []domain.Transaction) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("error creating %s: %w", filename, err)
	}
	defer file.Close()

	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("error writing BOM to %s: %w", filename, err)
	}
	if err := WriteCSV(file, txns); err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	return file.Close()
}
