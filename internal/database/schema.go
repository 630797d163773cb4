package database

import (
	"database/sql"
	_ "embed"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// SchemaVersion is written to PRAGMA user_version once the schema exists
const SchemaVersion = 1

//go:embed schema.sql
var schemaSQL string

// EnsureSchema creates every table and index that does not exist yet.
// It is safe to call on every startup.
func (r *Repository) EnsureSchema() error {
	log.Info().Str("path", r.path).Msg("Ensuring database schema")

	r.mu.Lock()
	defer r.mu.Unlock()

	statements := splitSQLStatements(schemaSQL)
	err := r.transaction(func(tx *sql.Tx) error {
		for i, stmt := range statements {
			if _, err := tx.Exec(stmt); err != nil {
				return fmt.Errorf("%w: schema statement %d failed: %w", ErrStorageUnavailable, i+1, err)
			}
		}

		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", SchemaVersion)); err != nil {
			return fmt.Errorf("%w: failed to record schema version: %w", ErrStorageUnavailable, err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	log.Info().Int("statements", len(statements)).Int("version", SchemaVersion).Msg("Database schema ready")
	return nil
}

// CurrentSchemaVersion reads PRAGMA user_version from the store.
// A store that never had EnsureSchema run reports 0.
func (r *Repository) CurrentSchemaVersion() (int, error) {
	var version int
	err := r.withConn(func(conn *sql.DB) error {
		return conn.QueryRow("PRAGMA user_version").Scan(&version)
	})
	if err != nil {
		return 0, wrapError("read schema version", err)
	}
	return version, nil
}

// splitSQLStatements splits a SQL string into individual statements.
// It handles comments and only returns non-empty statements.
func splitSQLStatements(sql string) []string {
	var statements []string
	var current strings.Builder

	for line := range strings.SplitSeq(sql, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")

		if strings.HasSuffix(trimmed, ";") {
			if stmt := strings.TrimSpace(current.String()); stmt != "" && stmt != ";" {
				statements = append(statements, stmt)
			}
			current.Reset()
		}
	}

	// trailing statement without a semicolon
	if remaining := strings.TrimSpace(current.String()); remaining != "" {
		statements = append(statements, remaining)
	}

	return statements
}
