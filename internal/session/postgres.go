package session

import (
	"context"
	"database/sql"
	"encoding/json"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/pawlingo/pawlingo-server/internal/models"
)

// PostgresDB keeps the user record in a single-row sessions table,
// for deployments that want the session to survive host restarts.
type PostgresDB struct {
	*sql.DB
}

// NewPostgresDB connects to PostgreSQL and ensures the sessions table exists
func NewPostgresDB(connStr string) (*PostgresDB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			key TEXT PRIMARY KEY,
			record JSONB NOT NULL
		)`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &PostgresDB{db}, nil
}

func (db *PostgresDB) Save(ctx context.Context, user *models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO sessions (key, record) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET record = EXCLUDED.record`,
		sessionKey, data)
	return err
}

func (db *PostgresDB) Load(ctx context.Context) (*models.User, error) {
	var data []byte
	err := db.QueryRowContext(ctx,
		"SELECT record FROM sessions WHERE key = $1", sessionKey).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		db.ExecContext(ctx, "DELETE FROM sessions WHERE key = $1", sessionKey)
		return nil, ErrCorruptSession
	}
	return &user, nil
}

func (db *PostgresDB) Clear(ctx context.Context) error {
	_, err := db.ExecContext(ctx, "DELETE FROM sessions WHERE key = $1", sessionKey)
	return err
}
