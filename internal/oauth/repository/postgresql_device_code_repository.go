package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/e0ipso/simple-oauth-21-sub003/internal/database"
	apperrors "github.com/e0ipso/simple-oauth-21-sub003/internal/errors"
	oauthDomain "github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/domain"
)

// PostgreSQLDeviceCodeRepository implements DeviceCode persistence for
// PostgreSQL. The conditional operations (TouchLastPolled, Consume,
// SetApproval) are single guarded statements; the rows-affected count is the
// atomicity contract, so they must never be split into read-then-write.
type PostgreSQLDeviceCodeRepository struct {
	db *sql.DB
}

// Create inserts a new DeviceCode into the PostgreSQL database. The unique
// index on user_code maps to ErrUserCodeTaken so callers can retry with a
// fresh code.
func (p *PostgreSQLDeviceCodeRepository) Create(ctx context.Context, code *oauthDomain.DeviceCode) error {
	querier := database.GetTx(ctx, p.db)

	scopesJSON, err := json.Marshal(code.Scopes)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal scopes")
	}

	query := `INSERT INTO oauth_device_codes
			  (id, device_code, user_code, client_id, scopes, expires_at, interval_seconds,
			   last_polled_at, user_approved, user_identifier, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = querier.ExecContext(
		ctx,
		query,
		code.ID,
		code.DeviceCode,
		code.UserCode,
		code.ClientID,
		scopesJSON,
		code.ExpiresAt,
		int64(code.Interval.Seconds()),
		code.LastPolledAt,
		code.UserApproved,
		code.UserIdentifier,
		code.CreatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return oauthDomain.ErrUserCodeTaken
		}
		return apperrors.Wrap(err, "failed to create device code")
	}
	return nil
}

const deviceCodeColumns = `id, device_code, user_code, client_id, scopes, expires_at,
			   interval_seconds, last_polled_at, user_approved, user_identifier, created_at`

// GetByDeviceCode retrieves a DeviceCode by its opaque device_code value.
func (p *PostgreSQLDeviceCodeRepository) GetByDeviceCode(
	ctx context.Context,
	deviceCode string,
) (*oauthDomain.DeviceCode, error) {
	query := `SELECT ` + deviceCodeColumns + ` FROM oauth_device_codes WHERE device_code = $1`

	return scanDeviceCode(database.GetTx(ctx, p.db).QueryRowContext(ctx, query, deviceCode))
}

// GetByUserCode retrieves an unexpired DeviceCode by its normalized user code.
func (p *PostgreSQLDeviceCodeRepository) GetByUserCode(
	ctx context.Context,
	userCode string,
	now time.Time,
) (*oauthDomain.DeviceCode, error) {
	query := `SELECT ` + deviceCodeColumns + ` FROM oauth_device_codes
			  WHERE user_code = $1 AND expires_at > $2`

	return scanDeviceCode(database.GetTx(ctx, p.db).QueryRowContext(ctx, query, userCode, now))
}

// TouchLastPolled advances last_polled_at if at least minInterval has passed
// since the previous poll (or none happened). The guard and the update are
// one statement, so concurrent pollers serialize on the row.
func (p *PostgreSQLDeviceCodeRepository) TouchLastPolled(
	ctx context.Context,
	deviceCode string,
	now time.Time,
	minInterval time.Duration,
) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE oauth_device_codes
			  SET last_polled_at = $1
			  WHERE device_code = $2
			    AND (last_polled_at IS NULL OR last_polled_at <= $3)`

	result, err := querier.ExecContext(ctx, query, now, deviceCode, now.Add(-minInterval))
	if err != nil {
		return false, apperrors.Wrap(err, "failed to touch last polled")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to get rows affected")
	}

	return rows == 1, nil
}

// SetApproval records the user's decision while the code is still pending.
func (p *PostgreSQLDeviceCodeRepository) SetApproval(
	ctx context.Context,
	deviceCode string,
	approved bool,
	userIdentifier *string,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE oauth_device_codes
			  SET user_approved = $1, user_identifier = $2
			  WHERE device_code = $3 AND user_approved IS NULL`

	result, err := querier.ExecContext(ctx, query, approved, userIdentifier, deviceCode)
	if err != nil {
		return apperrors.Wrap(err, "failed to set approval")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rows == 0 {
		return oauthDomain.ErrDeviceCodeNotFound
	}

	return nil
}

// Consume deletes an approved device code and reports whether this caller
// won the deletion. The user_approved guard keeps pending and denied codes
// out of reach.
func (p *PostgreSQLDeviceCodeRepository) Consume(ctx context.Context, deviceCode string) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM oauth_device_codes
			  WHERE device_code = $1 AND user_approved = TRUE`

	result, err := querier.ExecContext(ctx, query, deviceCode)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to consume device code")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to get rows affected")
	}

	return rows == 1, nil
}

// Delete removes a device code unconditionally.
func (p *PostgreSQLDeviceCodeRepository) Delete(ctx context.Context, deviceCode string) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM oauth_device_codes WHERE device_code = $1`

	if _, err := querier.ExecContext(ctx, query, deviceCode); err != nil {
		return apperrors.Wrap(err, "failed to delete device code")
	}
	return nil
}

// DeleteExpired removes all codes past their expiry.
func (p *PostgreSQLDeviceCodeRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM oauth_device_codes WHERE expires_at <= $1`

	result, err := querier.ExecContext(ctx, query, now)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired device codes")
	}

	return result.RowsAffected()
}

// DeleteResolvedBefore removes approved or denied codes created before the cutoff.
func (p *PostgreSQLDeviceCodeRepository) DeleteResolvedBefore(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM oauth_device_codes
			  WHERE user_approved IS NOT NULL AND created_at < $1`

	result, err := querier.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete resolved device codes")
	}

	return result.RowsAffected()
}

// CountResolvedBefore counts the codes DeleteResolvedBefore would remove.
func (p *PostgreSQLDeviceCodeRepository) CountResolvedBefore(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT COUNT(*) FROM oauth_device_codes
			  WHERE user_approved IS NOT NULL AND created_at < $1`

	var count int64
	if err := querier.QueryRowContext(ctx, query, cutoff).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count resolved device codes")
	}

	return count, nil
}

// Stats returns counts of active (pending), authorized, and expired codes.
func (p *PostgreSQLDeviceCodeRepository) Stats(
	ctx context.Context,
	now time.Time,
) (*oauthDomain.DeviceCodeStats, error) {
	querier := database.GetTx(ctx, p.db)

	// Authorized counts approved codes of any age, so an approved code past
	// its expiry shows in both the authorized and expired columns.
	query := `SELECT
			  COUNT(*) FILTER (WHERE expires_at > $1 AND user_approved IS NULL),
			  COUNT(*) FILTER (WHERE user_approved = TRUE),
			  COUNT(*) FILTER (WHERE expires_at <= $1)
			  FROM oauth_device_codes`

	var stats oauthDomain.DeviceCodeStats
	err := querier.QueryRowContext(ctx, query, now).Scan(
		&stats.Active,
		&stats.Authorized,
		&stats.Expired,
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get device code stats")
	}

	return &stats, nil
}

// scanDeviceCode reads a device code row. Shared by the PostgreSQL and MySQL
// repositories since the column order matches.
func scanDeviceCode(row *sql.Row) (*oauthDomain.DeviceCode, error) {
	var code oauthDomain.DeviceCode
	var scopesJSON []byte
	var intervalSeconds int64

	err := row.Scan(
		&code.ID,
		&code.DeviceCode,
		&code.UserCode,
		&code.ClientID,
		&scopesJSON,
		&code.ExpiresAt,
		&intervalSeconds,
		&code.LastPolledAt,
		&code.UserApproved,
		&code.UserIdentifier,
		&code.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, oauthDomain.ErrDeviceCodeNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get device code")
	}

	if err := json.Unmarshal(scopesJSON, &code.Scopes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal scopes")
	}
	code.Interval = time.Duration(intervalSeconds) * time.Second

	return &code, nil
}

// NewPostgreSQLDeviceCodeRepository creates a new PostgreSQL DeviceCode repository.
func NewPostgreSQLDeviceCodeRepository(db *sql.DB) *PostgreSQLDeviceCodeRepository {
	return &PostgreSQLDeviceCodeRepository{db: db}
}
