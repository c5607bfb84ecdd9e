package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/spacebrain/backend/internal/store"
)

// Importer streams bank statement exports into the store. It is an
// offline batch tool; it shares nothing with the HTTP server beyond the
// storage gateway.
type Importer struct {
	store *store.Store
}

func New(st *store.Store) *Importer {
	return &Importer{store: st}
}

// ImportFile reads a semicolon-delimited statement export and persists
// one bank transaction per well-formed row, returning the number of rows
// persisted. Short rows are skipped without error. A file that cannot be
// opened or read, or a store failure, aborts the run.
//
// Every run gets a uuid batch id, stamped on the stored rows and written
// to the access log so imports show up in the audit trail.
func (im *Importer) ImportFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open statement file: %w", err)
	}
	defer f.Close()

	batchID := uuid.NewString()
	log.Printf("[IMPORT] Loading file %s, batch %s", path, batchID)

	reader := csv.NewReader(f)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	count := 0
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, fmt.Errorf("read statement file: %w", err)
		}

		tx, ok := ParseRow(fields)
		if !ok {
			continue
		}

		tx.BatchID = batchID
		if err := im.store.SaveBankTransaction(tx); err != nil {
			return count, fmt.Errorf("save bank transaction: %w", err)
		}
		count++
	}

	log.Printf("[IMPORT] Loaded %d transactions from %s", count, path)

	summary := fmt.Sprintf("imported %d transactions from %s (batch %s)", count, path, batchID)
	if err := im.store.AddLog("bankimport", "import", summary); err != nil {
		log.Printf("[IMPORT] Failed to write import log entry: %v", err)
	}

	return count, nil
}
