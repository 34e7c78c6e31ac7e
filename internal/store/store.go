package store

import (
	"bytes"
	"encoding/csv"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Row maps column name to cell text. Every row carries exactly the header's
// key set; cells missing from a ragged line are present as "".
type Row map[string]string

// Store holds the listing table loaded once at startup. It is never mutated
// after Load returns, so readers need no synchronization.
type Store struct {
	columns []string
	rows    []Row
	logger  *zap.Logger
}

// exportPreamble marks the banner line some MLS exporters prepend above the
// real header ("Listings as of 08/12/25 at 3:40pm ...").
const exportPreamble = "Listings as of"

// Load reads the CSV at path into memory. Any failure leaves the store empty
// rather than failing the process: an empty table is a valid state and every
// query layer treats zero rows as zero matches.
func Load(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{logger: logger}

	content, err := os.ReadFile(path)
	if err != nil {
		logger.Error("listings CSV not loaded, serving empty table",
			zap.String("path", path), zap.Error(err))
		return s
	}

	content = bytes.TrimPrefix(content, []byte{0xEF, 0xBB, 0xBF})

	// Drop the exporter banner line when present so the real header parses.
	if bytes.HasPrefix(bytes.TrimLeft(content, " \t"), []byte(exportPreamble)) {
		if idx := bytes.IndexByte(content, '\n'); idx != -1 {
			content = content[idx+1:]
		}
	}

	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil || len(records) == 0 {
		logger.Error("listings CSV unparseable, serving empty table",
			zap.String("path", path), zap.Error(err))
		return s
	}

	header := records[0]
	s.columns = make([]string, 0, len(header))
	for _, name := range header {
		s.columns = append(s.columns, strings.TrimSpace(name))
	}

	s.rows = make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(Row, len(s.columns))
		for i, col := range s.columns {
			if i < len(rec) {
				row[col] = rec[i]
			} else {
				row[col] = ""
			}
		}
		s.rows = append(s.rows, row)
	}

	logger.Info("listings loaded",
		zap.String("path", path),
		zap.Int("rows", len(s.rows)),
		zap.Int("columns", len(s.columns)))
	return s
}

// New builds a store from already-parsed data. Used by tests and tooling.
func New(columns []string, rows []Row) *Store {
	return &Store{columns: columns, rows: rows, logger: zap.NewNop()}
}

// Len returns the number of data rows.
func (s *Store) Len() int { return len(s.rows) }

// Columns returns the ordered column set from the CSV header.
func (s *Store) Columns() []string { return s.columns }

// Row returns the row at position i, or nil if i is out of range.
func (s *Store) Row(i int) Row {
	if i < 0 || i >= len(s.rows) {
		return nil
	}
	return s.rows[i]
}
