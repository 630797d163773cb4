package database

import (
	"database/sql"

	"github.com/rs/zerolog/log"
)

// Optimize runs SQLite's PRAGMA optimize to refresh planner stats.
func (r *Repository) Optimize() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.withConn(func(conn *sql.DB) error {
		_, err := conn.Exec("PRAGMA optimize")
		return err
	})
	if err != nil {
		return wrapError("optimize database", err)
	}

	log.Debug().Str("path", r.path).Msg("Database optimized")
	return nil
}

// Vacuum rebuilds the database file to reclaim unused space.
func (r *Repository) Vacuum() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.withConn(func(conn *sql.DB) error {
		_, err := conn.Exec("VACUUM")
		return err
	})
	if err != nil {
		return wrapError("vacuum database", err)
	}

	log.Debug().Str("path", r.path).Msg("Database vacuumed")
	return nil
}
