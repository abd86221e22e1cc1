package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/e0ipso/simple-oauth-21-sub003/internal/database"
	apperrors "github.com/e0ipso/simple-oauth-21-sub003/internal/errors"
	oauthDomain "github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/domain"
)

// MySQLDeviceCodeRepository implements DeviceCode persistence for MySQL.
// Uses BINARY(16) for UUID storage. The conditional operations carry the
// same single-statement atomicity contract as the PostgreSQL repository.
type MySQLDeviceCodeRepository struct {
	db *sql.DB
}

// Create inserts a new DeviceCode into the MySQL database.
func (m *MySQLDeviceCodeRepository) Create(ctx context.Context, code *oauthDomain.DeviceCode) error {
	querier := database.GetTx(ctx, m.db)

	scopesJSON, err := json.Marshal(code.Scopes)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal scopes")
	}

	id, err := code.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal device code id")
	}
	clientID, err := code.ClientID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal client id")
	}

	query := `INSERT INTO oauth_device_codes
			  (id, device_code, user_code, client_id, scopes, expires_at, interval_seconds,
			   last_polled_at, user_approved, user_identifier, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		code.DeviceCode,
		code.UserCode,
		clientID,
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

// GetByDeviceCode retrieves a DeviceCode by its opaque device_code value.
func (m *MySQLDeviceCodeRepository) GetByDeviceCode(
	ctx context.Context,
	deviceCode string,
) (*oauthDomain.DeviceCode, error) {
	query := `SELECT ` + deviceCodeColumns + ` FROM oauth_device_codes WHERE device_code = ?`

	return scanMySQLDeviceCode(database.GetTx(ctx, m.db).QueryRowContext(ctx, query, deviceCode))
}

// GetByUserCode retrieves an unexpired DeviceCode by its normalized user code.
func (m *MySQLDeviceCodeRepository) GetByUserCode(
	ctx context.Context,
	userCode string,
	now time.Time,
) (*oauthDomain.DeviceCode, error) {
	query := `SELECT ` + deviceCodeColumns + ` FROM oauth_device_codes
			  WHERE user_code = ? AND expires_at > ?`

	return scanMySQLDeviceCode(database.GetTx(ctx, m.db).QueryRowContext(ctx, query, userCode, now))
}

// TouchLastPolled advances last_polled_at if at least minInterval has passed
// since the previous poll (or none happened).
func (m *MySQLDeviceCodeRepository) TouchLastPolled(
	ctx context.Context,
	deviceCode string,
	now time.Time,
	minInterval time.Duration,
) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE oauth_device_codes
			  SET last_polled_at = ?
			  WHERE device_code = ?
			    AND (last_polled_at IS NULL OR last_polled_at <= ?)`

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
func (m *MySQLDeviceCodeRepository) SetApproval(
	ctx context.Context,
	deviceCode string,
	approved bool,
	userIdentifier *string,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE oauth_device_codes
			  SET user_approved = ?, user_identifier = ?
			  WHERE device_code = ? AND user_approved IS NULL`

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
// won the deletion.
func (m *MySQLDeviceCodeRepository) Consume(ctx context.Context, deviceCode string) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM oauth_device_codes
			  WHERE device_code = ? AND user_approved = TRUE`

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
func (m *MySQLDeviceCodeRepository) Delete(ctx context.Context, deviceCode string) error {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM oauth_device_codes WHERE device_code = ?`

	if _, err := querier.ExecContext(ctx, query, deviceCode); err != nil {
		return apperrors.Wrap(err, "failed to delete device code")
	}
	return nil
}

// DeleteExpired removes all codes past their expiry.
func (m *MySQLDeviceCodeRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM oauth_device_codes WHERE expires_at <= ?`

	result, err := querier.ExecContext(ctx, query, now)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired device codes")
	}

	return result.RowsAffected()
}

// DeleteResolvedBefore removes approved or denied codes created before the cutoff.
func (m *MySQLDeviceCodeRepository) DeleteResolvedBefore(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM oauth_device_codes
			  WHERE user_approved IS NOT NULL AND created_at < ?`

	result, err := querier.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete resolved device codes")
	}

	return result.RowsAffected()
}

// CountResolvedBefore counts the codes DeleteResolvedBefore would remove.
func (m *MySQLDeviceCodeRepository) CountResolvedBefore(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT COUNT(*) FROM oauth_device_codes
			  WHERE user_approved IS NOT NULL AND created_at < ?`

	var count int64
	if err := querier.QueryRowContext(ctx, query, cutoff).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count resolved device codes")
	}

	return count, nil
}

// Stats returns counts of active (pending), authorized, and expired codes.
// MySQL has no FILTER clause, so conditional SUMs do the counting.
func (m *MySQLDeviceCodeRepository) Stats(
	ctx context.Context,
	now time.Time,
) (*oauthDomain.DeviceCodeStats, error) {
	querier := database.GetTx(ctx, m.db)

	// Authorized counts approved codes of any age, so an approved code past
	// its expiry shows in both the authorized and expired columns.
	query := `SELECT
			  COALESCE(SUM(CASE WHEN expires_at > ? AND user_approved IS NULL THEN 1 ELSE 0 END), 0),
			  COALESCE(SUM(CASE WHEN user_approved = TRUE THEN 1 ELSE 0 END), 0),
			  COALESCE(SUM(CASE WHEN expires_at <= ? THEN 1 ELSE 0 END), 0)
			  FROM oauth_device_codes`

	var stats oauthDomain.DeviceCodeStats
	err := querier.QueryRowContext(ctx, query, now, now).Scan(
		&stats.Active,
		&stats.Authorized,
		&stats.Expired,
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get device code stats")
	}

	return &stats, nil
}

// scanMySQLDeviceCode reads a device code row with BINARY(16) UUID columns.
func scanMySQLDeviceCode(row *sql.Row) (*oauthDomain.DeviceCode, error) {
	var code oauthDomain.DeviceCode
	var idBytes, clientIDBytes, scopesJSON []byte
	var intervalSeconds int64

	err := row.Scan(
		&idBytes,
		&code.DeviceCode,
		&code.UserCode,
		&clientIDBytes,
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

	code.ID, err = uuid.FromBytes(idBytes)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal device code id")
	}
	code.ClientID, err = uuid.FromBytes(clientIDBytes)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal client id")
	}

	if err := json.Unmarshal(scopesJSON, &code.Scopes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal scopes")
	}
	code.Interval = time.Duration(intervalSeconds) * time.Second

	return &code, nil
}

// NewMySQLDeviceCodeRepository creates a new MySQL DeviceCode repository.
func NewMySQLDeviceCodeRepository(db *sql.DB) *MySQLDeviceCodeRepository {
	return &MySQLDeviceCodeRepository{db: db}
}
