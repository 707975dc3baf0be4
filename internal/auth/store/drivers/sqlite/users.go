package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/spendlog/spendlog/internal/auth/domain"
	"github.com/spendlog/spendlog/internal/auth/store"
	"github.com/spendlog/spendlog/pkg/idx"
)

type usersRepo struct {
	db *sql.DB
}

const userColumns = `id, name, email, password_hash, is_verified,
	verification_token, reset_token, reset_token_expiry, token_version,
	created_at, updated_at`

func (r *usersRepo) Create(ctx context.Context, user *domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID.String(),
		user.Name,
		user.Email,
		user.PasswordHash,
		boolToInt(user.IsVerified),
		mapOptionalString(user.VerificationToken),
		mapOptionalString(user.ResetToken),
		mapOptionalTime(user.ResetTokenExpiry),
		user.TokenVersion,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *usersRepo) GetByID(ctx context.Context, id idx.ID) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id.String())
	return mapUserRow(row.Scan)
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return mapUserRow(row.Scan)
}

func (r *usersRepo) ConsumeVerificationToken(ctx context.Context, tokenFingerprint string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET is_verified = 1,
		    verification_token = NULL,
		    updated_at = ?
		WHERE verification_token = ?`,
		time.Now().UTC(), tokenFingerprint)
	if err != nil {
		return err
	}
	return requireOneRow(res)
}

func (r *usersRepo) SetResetToken(ctx context.Context, id idx.ID, tokenFingerprint string, expiry time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET reset_token = ?,
		    reset_token_expiry = ?,
		    updated_at = ?
		WHERE id = ?`,
		tokenFingerprint, expiry, time.Now().UTC(), id.String())
	if err != nil {
		return err
	}
	return requireOneRow(res)
}

func (r *usersRepo) ResetPassword(ctx context.Context, tokenFingerprint, newPasswordHash string, now time.Time) error {
	// Conditional consume: the WHERE clause makes concurrent resets with
	// the same token race to a single winner, and the version bump in the
	// same statement revokes every outstanding refresh token.
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET password_hash = ?,
		    reset_token = NULL,
		    reset_token_expiry = NULL,
		    token_version = token_version + 1,
		    updated_at = ?
		WHERE reset_token = ?
		  AND reset_token_expiry > ?`,
		newPasswordHash, now.UTC(), tokenFingerprint, now.UTC())
	if err != nil {
		return err
	}
	return requireOneRow(res)
}

func (r *usersRepo) IncrementTokenVersion(ctx context.Context, id idx.ID) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET token_version = token_version + 1,
		    updated_at = ?
		WHERE id = ?`,
		time.Now().UTC(), id.String())
	if err != nil {
		return err
	}
	return requireOneRow(res)
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// isUniqueViolation detects SQLite unique constraint failures. The modernc
// driver surfaces them as plain errors, so match on the message.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
