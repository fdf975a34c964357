package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/dvloznov/expense-tracker/internal/domain"
)

func TestWriteCSV(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := WriteCSV(buf, domain.SeedTransactions()); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	rows, err := csv.NewReader(buf).ReadAll()
	if err != nil {
		t.Fatalf("reading back CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}

	want := []string{"1", "2025-06-25", "Grocery Shopping", "Walmart", "Debit", "Shopping", "50.00"}
	for i, v := range want {
		if rows[1][i] != v {
			t.Errorf("row 1 column %s = %q, want %q", Header[i], rows[1][i], v)
		}
	}
	if rows[2][0] != "2" || rows[2][6] != "1200.00" {
		t.Errorf("unexpected second row: %v", rows[2])
	}
}

func TestWriteCSV_QuotesCommas(t *testing.T) {
	txns := domain.SeedTransactions()[:1]
	txns[0].Description = "Milk, eggs"

	buf := &bytes.Buffer{}
	if err := WriteCSV(buf, txns); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"Milk, eggs"`)) {
		t.Errorf("expected quoted field, got %s", buf.String())
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transactions.csv")
	if err := WriteFile(path, domain.SeedTransactions()); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}) {
		t.Error("expected UTF-8 BOM prefix")
	}
}
