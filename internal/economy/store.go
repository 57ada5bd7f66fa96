// Package economy persists player balances and settings and applies the
// wager settlement policy. The rules engine never touches this layer;
// frontends deduct the wager up front and credit the payout for the
// round's outcome when it ends.
package economy

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// SettingDailyCooldown is the settings key for the daily-claim cooldown
// in minutes. It is seeded on first open and admin-tunable at runtime.
const SettingDailyCooldown = "daily_cooldown_minutes"

const defaultDailyCooldown = "120"

// Store is the sqlite-backed ledger: one row per player with a balance
// clamped at zero plus the last daily-claim time, and a key/value
// settings table.
type Store struct {
	db     *sql.DB
	logger zerolog.Logger
}

// Open opens (or creates) the database at path and runs migrations.
// Use ":memory:" for a throwaway store in tests.
func Open(path string, logger zerolog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	// database/sql pools connections, but a second connection to an
	// in-memory sqlite database sees a different database entirely.
	db.SetMaxOpenConns(1)

	s := &Store{
		db:     db,
		logger: logger.With().Str("component", "economy").Logger(),
	}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}

	s.logger.Debug().Str("path", path).Msg("ledger opened")
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_id          TEXT PRIMARY KEY,
			balance          INTEGER NOT NULL DEFAULT 0,
			last_daily_claim TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`,
		SettingDailyCooldown, defaultDailyCooldown,
	)
	if err != nil {
		return fmt.Errorf("seed settings: %w", err)
	}
	return nil
}

func (s *Store) ensureUser(userID string) error {
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO users (user_id, balance) VALUES (?, 0)`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("ensure user %s: %w", userID, err)
	}
	return nil
}

// Balance returns the player's balance, creating the row at zero for
// players the store has never seen.
func (s *Store) Balance(userID string) (int64, error) {
	if err := s.ensureUser(userID); err != nil {
		return 0, err
	}

	var balance int64
	err := s.db.QueryRow(
		`SELECT balance FROM users WHERE user_id = ?`, userID,
	).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("balance for %s: %w", userID, err)
	}
	return balance, nil
}

// Adjust applies delta to the player's balance and returns the new
// value. Balances are clamped at zero: an overdraw leaves the player
// broke, not negative.
func (s *Store) Adjust(userID string, delta int64) (int64, error) {
	if err := s.ensureUser(userID); err != nil {
		return 0, err
	}

	// RETURNING keeps the update and the read atomic, so the value
	// never includes a concurrent caller's delta.
	var balance int64
	err := s.db.QueryRow(
		`UPDATE users SET balance = MAX(0, balance + ?) WHERE user_id = ? RETURNING balance`,
		delta, userID,
	).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("adjust %s by %d: %w", userID, delta, err)
	}

	s.logger.Debug().Str("player", userID).Int64("delta", delta).Int64("balance", balance).Msg("balance adjusted")
	return balance, nil
}

// Setting returns the value for key, or ok=false when unset.
func (s *Store) Setting(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(
		`SELECT value FROM settings WHERE key = ?`, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("setting %s: %w", key, err)
	}
	return value, true, nil
}

// SetSetting inserts or replaces a setting.
func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}

// LastClaim returns the player's last daily-claim time in UTC, or
// ok=false if they have never claimed.
func (s *Store) LastClaim(userID string) (time.Time, bool, error) {
	if err := s.ensureUser(userID); err != nil {
		return time.Time{}, false, err
	}

	var raw sql.NullString
	err := s.db.QueryRow(
		`SELECT last_daily_claim FROM users WHERE user_id = ?`, userID,
	).Scan(&raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("last claim for %s: %w", userID, err)
	}
	if !raw.Valid {
		return time.Time{}, false, nil
	}

	t, err := time.Parse(time.RFC3339, raw.String)
	if err != nil {
		// An unparseable timestamp is treated as never-claimed rather
		// than locking the player out of the reward.
		s.logger.Warn().Str("player", userID).Str("value", raw.String).Msg("discarding malformed claim timestamp")
		return time.Time{}, false, nil
	}
	return t.UTC(), true, nil
}

// SetLastClaim records the player's daily-claim time.
func (s *Store) SetLastClaim(userID string, t time.Time) error {
	if err := s.ensureUser(userID); err != nil {
		return err
	}

	_, err := s.db.Exec(
		`UPDATE users SET last_daily_claim = ? WHERE user_id = ?`,
		t.UTC().Format(time.RFC3339), userID,
	)
	if err != nil {
		return fmt.Errorf("set last claim for %s: %w", userID, err)
	}
	return nil
}

// LeaderboardEntry is one row of the balance leaderboard.
type LeaderboardEntry struct {
	UserID  string
	Balance int64
}

// TopBalances returns up to limit players ordered by balance descending.
func (s *Store) TopBalances(limit int) ([]LeaderboardEntry, error) {
	rows, err := s.db.Query(
		`SELECT user_id, balance FROM users ORDER BY balance DESC, user_id ASC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("top balances: %w", err)
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Balance); err != nil {
			return nil, fmt.Errorf("top balances: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
