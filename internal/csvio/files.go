package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/halverson/scoutline/internal/normalize"
)

// Read parses CSV content into a Table. The first record is the header;
// every data row must match its width.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty CSV: no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	t := NewTable(header...)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row: %w", err)
		}
		t.Append(rec...)
	}
	return t, nil
}

// ReadFile reads a CSV file into a Table.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return t, nil
}

// Write serializes a Table as CSV, header first.
func Write(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes a Table to path, creating parent directories as needed.
func WriteFile(path string, t *Table) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := Write(f, t); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// WriteCohortFile persists one cohort table under dir, deriving the file
// name from the cohort value. Returns the written path.
func WriteCohortFile(dir, cohortValue string, t *Table) (string, error) {
	path := filepath.Join(dir, normalize.FileName(cohortValue)+".csv")
	if err := WriteFile(path, t); err != nil {
		return "", err
	}
	return path, nil
}
