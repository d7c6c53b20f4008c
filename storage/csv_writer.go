package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mozillazg/go-unidecode"

	"cian-scraper/models"
	"cian-scraper/services"
)

// CSVWriter appends admitted records to a semicolon-delimited CSV file as
// the crawl emits them. The header is fixed by the assembler's schema for
// the whole run; a row of any other shape is rejected.
// It is safe for concurrent use.
type CSVWriter struct {
	mu        sync.Mutex
	file      *os.File
	writer    *csv.Writer
	assembler *services.Assembler
	columns   []string
}

var _ RecordSink = (*CSVWriter)(nil)

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string, assembler *services.Assembler) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	w.Comma = ';'

	columns := assembler.Columns()
	if err := w.Write(columns); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w, assembler: assembler, columns: columns}, nil
}

// Append writes one record. A row whose shape differs from the header is
// a schema-consistency defect and is reported instead of written.
func (c *CSVWriter) Append(rec *models.Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	row := c.assembler.Row(rec)
	if len(row) != len(c.columns) {
		return fmt.Errorf("csv: row has %d fields, header has %d", len(row), len(c.columns))
	}

	if err := c.writer.Write(row); err != nil {
		return fmt.Errorf("csv: write row: %w", err)
	}
	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}

// DefaultCSVPath builds the export file name for a run:
// cian_<deal>_<start>_<end>_<city-slug>_<timestamp>.csv under dataDir.
func DefaultCSVPath(dataDir string, dealType models.DealType, startPage, endPage int, city string) string {
	slug := strings.ToLower(unidecode.Unidecode(city))
	slug = strings.ReplaceAll(slug, "'", "")
	slug = strings.ReplaceAll(slug, " ", "_")

	name := fmt.Sprintf("cian_%s_%d_%d_%s_%s.csv",
		dealType, startPage, endPage, slug,
		time.Now().Format("02_Jan_2006_15_04_05"))
	return filepath.Join(dataDir, name)
}
