// Package sqlite implements the credential store on an embedded SQLite
// database via modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "modernc.org/sqlite"

	"github.com/spendlog/spendlog/internal/auth/domain"
	"github.com/spendlog/spendlog/internal/auth/store"
	"github.com/spendlog/spendlog/pkg/idx"
)

type Store struct {
	db  *sql.DB
	dsn string
}

func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// Enforce FKs
	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, dsn: dsn}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Users() store.Users { return &usersRepo{db: s.db} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func mapNullStringPtr(ns sql.NullString) *string {
	if ns.Valid {
		val := ns.String
		return &val
	}
	return nil
}

func mapOptionalString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: *s, Valid: true}
}

func mapNullTimePtr(nt sql.NullTime) *time.Time {
	if nt.Valid {
		val := nt.Time
		return &val
	}
	return nil
}

func mapOptionalTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func mapUserRow(scan func(...any) error) (*domain.User, error) {
	var (
		user              domain.User
		id                string
		isVerified        int64
		verificationToken sql.NullString
		resetToken        sql.NullString
		resetTokenExpiry  sql.NullTime
	)

	err := scan(
		&id,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&isVerified,
		&verificationToken,
		&resetToken,
		&resetTokenExpiry,
		&user.TokenVersion,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, mapNotFound(err)
	}

	user.ID = idx.ID(id)
	user.IsVerified = isVerified != 0
	user.VerificationToken = mapNullStringPtr(verificationToken)
	user.ResetToken = mapNullStringPtr(resetToken)
	user.ResetTokenExpiry = mapNullTimePtr(resetTokenExpiry)
	return &user, nil
}
