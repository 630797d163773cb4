package database

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"
)

// insert runs a single-row INSERT and returns the generated id
func (r *Repository) insert(entity, query string, args ...any) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var id int64
	err := r.withConn(func(conn *sql.DB) error {
		result, err := conn.Exec(query, args...)
		if err != nil {
			return err
		}
		id, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get %s id: %w", entity, err)
		}
		return nil
	})
	if err != nil {
		return 0, wrapError("add "+entity, err)
	}

	log.Debug().Str("entity", entity).Int64("id", id).Msg("Row inserted")
	return id, nil
}

// remove deletes the row with the given id. Dependent rows follow the
// table's ON DELETE rules. A missing row yields ErrNotFound.
func (r *Repository) remove(entity, query string, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.withConn(func(conn *sql.DB) error {
		result, err := conn.Exec(query, id)
		if err != nil {
			return err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get affected rows: %w", err)
		}
		if affected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return wrapError(fmt.Sprintf("remove %s %d", entity, id), err)
	}

	log.Debug().Str("entity", entity).Int64("id", id).Msg("Row removed")
	return nil
}

// get scans a single row selected by id into dest
func (r *Repository) get(entity, query string, id int64, dest ...any) error {
	err := r.withConn(func(conn *sql.DB) error {
		return conn.QueryRow(query, id).Scan(dest...)
	})
	if err != nil {
		return wrapError(fmt.Sprintf("get %s %d", entity, id), err)
	}
	return nil
}
