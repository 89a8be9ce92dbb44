package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // SQLite driver

	"ytcommentsync/internal/config"
)

func Connect(cfg *config.Config) (*sqlx.DB, error) {
	return Open(cfg.DatabasePath)
}

// Open connects to the SQLite database at path and applies the schema.
func Open(path string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite: single writer
	db.SetMaxOpenConns(1)

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return db, nil
}

// initSchema creates the comments table if it doesn't exist.
//
// comment_id is deliberately not unique on its own: identity is the pair
// (comment_id, updated_date), so an edited comment inserts a new row and the
// table keeps edit history.
func initSchema(db *sqlx.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS comments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,

			youtube_video_id TEXT NOT NULL,
			channel_name TEXT NOT NULL,
			channel_id TEXT NOT NULL,

			comment_id TEXT NOT NULL,
			author TEXT NOT NULL,
			author_channel_id TEXT NOT NULL,

			text TEXT NOT NULL,
			publish_date TEXT,
			updated_date TEXT,
			reply_to TEXT
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_comments_identity
		ON comments (comment_id, updated_date)
	`)
	return err
}
