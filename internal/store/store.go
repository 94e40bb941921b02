// Package store is a sqlite-backed persistence layer adapted from the
// teacher's pkg/db: the same database/sql + modernc.org/sqlite +
// "INSERT OR REPLACE" + JSON-blob-column idiom, generalized from a
// single-purpose EDGAR submissions/filings/facts cache into three
// concerns a batch run of this parser/standardizer wants across
// process restarts — none of them required, all optional (§11.1):
//
//   - ConceptMapper's company-override layer and negative-mapping cache
//   - UnmappedTagLogger's cross-run "have we already logged this" set
//   - a content-hash cache of raw filing bytes, so re-running ParseHTML
//     over the same filing in a batch job skips re-tokenizing it
package store

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"
)

// Store wraps a SQLite connection backing the optional caches above.
type Store struct {
	conn *sql.DB
}

// Open creates (or reopens) a SQLite database at path and ensures its
// tables exist.
func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	s := &Store{conn: conn}
	if err := s.createTables(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) createTables() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS company_overrides (
			cik TEXT PRIMARY KEY,
			ticker TEXT NOT NULL DEFAULT '',
			mappings BLOB NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS negative_mappings (
			tag TEXT NOT NULL,
			statement_type TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (tag, statement_type)
		);`,
		`CREATE TABLE IF NOT EXISTS unmapped_seen (
			concept TEXT NOT NULL,
			statement_type TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (concept, statement_type)
		);`,
		`CREATE TABLE IF NOT EXISTS document_cache (
			content_hash TEXT PRIMARY KEY,
			raw BLOB NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
	}
	for _, stmt := range statements {
		if _, err := s.conn.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

// SaveCompanyOverrides persists a CIK's confirmed concept mappings —
// the durable form of ConceptMapper.LoadCompanyOverrides's in-memory
// layer, so mappings learned in one run (LearnMapping, §10.1) survive
// a restart.
func (s *Store) SaveCompanyOverrides(cik, ticker string, mappings map[string]string) error {
	data, err := json.Marshal(mappings)
	if err != nil {
		return fmt.Errorf("failed to marshal company overrides: %w", err)
	}
	query := `
		INSERT OR REPLACE INTO company_overrides (cik, ticker, mappings, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
	`
	if _, err := s.conn.Exec(query, cik, ticker, data); err != nil {
		return fmt.Errorf("failed to store company overrides: %w", err)
	}
	return nil
}

// LoadCompanyOverrides retrieves a CIK's persisted concept mappings,
// or (nil, false, nil) if none have been saved.
func (s *Store) LoadCompanyOverrides(cik string) (map[string]string, bool, error) {
	query := `SELECT mappings FROM company_overrides WHERE cik = ?`
	var data []byte
	if err := s.conn.QueryRow(query, cik).Scan(&data); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to query company overrides: %w", err)
	}
	var mappings map[string]string
	if err := json.Unmarshal(data, &mappings); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal company overrides: %w", err)
	}
	return mappings, true, nil
}

// LoadAllCompanyOverrides returns every persisted CIK's override map,
// keyed by CIK, for bulk-seeding a fresh ConceptMapper at process
// startup.
func (s *Store) LoadAllCompanyOverrides() (map[string]map[string]string, error) {
	rows, err := s.conn.Query(`SELECT cik, mappings FROM company_overrides`)
	if err != nil {
		return nil, fmt.Errorf("failed to query company overrides: %w", err)
	}
	defer rows.Close()

	out := map[string]map[string]string{}
	for rows.Next() {
		var cik string
		var data []byte
		if err := rows.Scan(&cik, &data); err != nil {
			return nil, fmt.Errorf("failed to scan company overrides row: %w", err)
		}
		var mappings map[string]string
		if err := json.Unmarshal(data, &mappings); err != nil {
			return nil, fmt.Errorf("failed to unmarshal company overrides: %w", err)
		}
		out[cik] = mappings
	}
	return out, nil
}

// SaveNegativeMapping persists a (tag, statementType) pair ConceptMapper
// could not resolve; IsNegativelyCached reads it back. MapConcept does
// not consult this table itself.
func (s *Store) SaveNegativeMapping(tag, statementType string) error {
	query := `INSERT OR REPLACE INTO negative_mappings (tag, statement_type) VALUES (?, ?)`
	if _, err := s.conn.Exec(query, tag, statementType); err != nil {
		return fmt.Errorf("failed to store negative mapping: %w", err)
	}
	return nil
}

// IsNegativelyCached reports whether (tag, statementType) was
// previously recorded as unmappable.
func (s *Store) IsNegativelyCached(tag, statementType string) (bool, error) {
	query := `SELECT 1 FROM negative_mappings WHERE tag = ? AND statement_type = ?`
	var found int
	err := s.conn.QueryRow(query, tag, statementType).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query negative mapping: %w", err)
	}
	return true, nil
}

// MarkUnmappedSeen records that UnmappedTagLogger already logged
// (concept, statementType) in a prior run, so a long batch job split
// across processes doesn't re-surface the same tag in every run's CSV.
func (s *Store) MarkUnmappedSeen(concept, statementType string) error {
	query := `INSERT OR REPLACE INTO unmapped_seen (concept, statement_type) VALUES (?, ?)`
	if _, err := s.conn.Exec(query, concept, statementType); err != nil {
		return fmt.Errorf("failed to mark unmapped tag seen: %w", err)
	}
	return nil
}

// WasUnmappedSeen reports whether (concept, statementType) was already
// logged as unmapped in a prior run.
func (s *Store) WasUnmappedSeen(concept, statementType string) (bool, error) {
	query := `SELECT 1 FROM unmapped_seen WHERE concept = ? AND statement_type = ?`
	var found int
	err := s.conn.QueryRow(query, concept, statementType).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query unmapped tag: %w", err)
	}
	return true, nil
}

// ContentHash returns the hex-encoded SHA-256 of raw, the cache key
// CacheDocumentBytes/GetCachedDocumentBytes use.
func ContentHash(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// CacheDocumentBytes stores raw filing bytes under their content hash.
func (s *Store) CacheDocumentBytes(raw []byte) (string, error) {
	hash := ContentHash(raw)
	query := `INSERT OR REPLACE INTO document_cache (content_hash, raw) VALUES (?, ?)`
	if _, err := s.conn.Exec(query, hash, raw); err != nil {
		return "", fmt.Errorf("failed to cache document bytes: %w", err)
	}
	return hash, nil
}

// GetCachedDocumentBytes retrieves previously cached filing bytes by
// content hash.
func (s *Store) GetCachedDocumentBytes(hash string) ([]byte, bool, error) {
	query := `SELECT raw FROM document_cache WHERE content_hash = ?`
	var raw []byte
	err := s.conn.QueryRow(query, hash).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to query document cache: %w", err)
	}
	return raw, true, nil
}
