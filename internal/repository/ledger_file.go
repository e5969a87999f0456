package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	sb "smart_budget"
)

// LedgerFileStore keeps one JSON document per user under dir, named
// budget_data_<username>.json. The whole document is rewritten on every
// save; there is no partial update.
type LedgerFileStore struct {
	dir string
}

func NewLedgerFileStore(dir string) *LedgerFileStore {
	return &LedgerFileStore{dir: dir}
}

// Ensure implementation of LedgerStore interface at compile time.
var _ LedgerStore = (*LedgerFileStore)(nil)

func (s *LedgerFileStore) path(username string) string {
	return filepath.Join(s.dir, "budget_data_"+username+".json")
}

// Load reads the user's ledger document. A missing or malformed file is
// treated as "no data yet" and yields an empty ledger with the default
// category set, never an error.
func (s *LedgerFileStore) Load(username string) (sb.Ledger, error) {
	b, err := os.ReadFile(s.path(username))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return sb.NewLedger(), nil
		}
		return sb.Ledger{}, fmt.Errorf("read ledger for %q: %w", username, err)
	}

	var l sb.Ledger
	if err := json.Unmarshal(b, &l); err != nil {
		// Corrupt document: start over rather than lock the user out.
		return sb.NewLedger(), nil
	}
	if l.Categories == nil {
		l.Categories = sb.NewLedger().Categories
	}
	if l.Months == nil {
		l.Months = map[string]sb.BudgetRecord{}
	}
	return l, nil
}

// Save overwrites the user's document atomically: the encoding is written to
// a temp file in the same directory and renamed over the target, so a crash
// mid-write never leaves a truncated document behind.
func (s *LedgerFileStore) Save(username string, l sb.Ledger) error {
	b, err := encodeLedger(l)
	if err != nil {
		return fmt.Errorf("encode ledger for %q: %w", username, err)
	}

	tmp, err := os.CreateTemp(s.dir, "budget_data_*.tmp")
	if err != nil {
		return fmt.Errorf("create temp ledger file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write ledger for %q: %w", username, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp ledger file: %w", err)
	}
	if err := os.Rename(tmpName, s.path(username)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace ledger for %q: %w", username, err)
	}
	return nil
}

// Export returns the on-disk bytes verbatim so a download matches the stored
// document byte for byte. With no file yet, it returns the canonical
// encoding of the empty ledger.
func (s *LedgerFileStore) Export(username string) ([]byte, error) {
	b, err := os.ReadFile(s.path(username))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return encodeLedger(sb.NewLedger())
		}
		return nil, fmt.Errorf("export ledger for %q: %w", username, err)
	}
	return b, nil
}

// encodeLedger is the single canonical encoding used for every write, which
// keeps load-then-save of an unmodified ledger byte-identical (JSON object
// keys are emitted in sorted order).
func encodeLedger(l sb.Ledger) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}
