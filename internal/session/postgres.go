package session

import (
	"database/sql"
	"log"
	"time"
)

const (
	accessTokenKey  = "access_token"
	refreshTokenKey = "refresh_token"
)

// PostgresTokenStore persists tokens in a small key/value table so a restart
// of the shell does not log the user out. Rows older than the refresh token
// lifetime are purged by a scheduled job.
type PostgresTokenStore struct {
	db      *sql.DB
	profile string
}

func NewPostgresTokenStore(db *sql.DB, profile string) *PostgresTokenStore {
	return &PostgresTokenStore{db: db, profile: profile}
}

func (s *PostgresTokenStore) get(name string) string {
	var value string
	err := s.db.QueryRow(
		`SELECT value FROM client_tokens WHERE profile = $1 AND name = $2`,
		s.profile, name,
	).Scan(&value)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Printf("token store read error: %v", err)
		}
		return ""
	}
	return value
}

func (s *PostgresTokenStore) set(name, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO client_tokens (profile, name, value, updated_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (profile, name)
		 DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		s.profile, name, value,
	)
	return err
}

func (s *PostgresTokenStore) AccessToken() string {
	return s.get(accessTokenKey)
}

func (s *PostgresTokenStore) RefreshToken() string {
	return s.get(refreshTokenKey)
}

func (s *PostgresTokenStore) SetTokens(access, refresh string) error {
	if err := s.set(accessTokenKey, access); err != nil {
		return err
	}
	return s.set(refreshTokenKey, refresh)
}

func (s *PostgresTokenStore) Clear() error {
	_, err := s.db.Exec(
		`DELETE FROM client_tokens WHERE profile = $1`,
		s.profile,
	)
	return err
}

// PurgeStale removes token rows untouched for longer than maxAge. A refresh
// token past its lifetime cannot be redeemed, so the row is dead weight.
func (s *PostgresTokenStore) PurgeStale(maxAge time.Duration) (int64, error) {
	res, err := s.db.Exec(
		`DELETE FROM client_tokens WHERE updated_at < $1`,
		time.Now().Add(-maxAge),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
