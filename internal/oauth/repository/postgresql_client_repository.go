// Package repository implements data persistence for the OAuth security core.
//
// Provides PostgreSQL and MySQL implementations with transaction support via
// database.GetTx(), plus an in-memory implementation for tests and embedded
// use. PostgreSQL uses native UUID types, MySQL uses BINARY(16) types.
// String-slice attributes (scopes, redirect URIs, grant types) are stored as
// JSON columns on both drivers.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"github.com/e0ipso/simple-oauth-21-sub003/internal/database"
	apperrors "github.com/e0ipso/simple-oauth-21-sub003/internal/errors"
	oauthDomain "github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/domain"
)

// PostgreSQLClientRepository implements Client persistence for PostgreSQL.
type PostgreSQLClientRepository struct {
	db *sql.DB
}

// Create inserts a new Client into the PostgreSQL database.
func (p *PostgreSQLClientRepository) Create(ctx context.Context, client *oauthDomain.Client) error {
	querier := database.GetTx(ctx, p.db)

	redirectURIsJSON, err := json.Marshal(client.RedirectURIs)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal redirect uris")
	}
	grantTypesJSON, err := json.Marshal(client.GrantTypes)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal grant types")
	}

	query := `INSERT INTO oauth_clients
			  (id, client_id, secret, name, is_confidential, redirect_uris, grant_types, is_active, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = querier.ExecContext(
		ctx,
		query,
		client.ID,
		client.ClientID,
		client.Secret,
		client.Name,
		client.IsConfidential,
		redirectURIsJSON,
		grantTypesJSON,
		client.IsActive,
		client.CreatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return apperrors.Wrap(apperrors.ErrConflict, "client_id already registered")
		}
		return apperrors.Wrap(err, "failed to create client")
	}
	return nil
}

// Get retrieves a Client by ID from the PostgreSQL database.
func (p *PostgreSQLClientRepository) Get(ctx context.Context, id uuid.UUID) (*oauthDomain.Client, error) {
	query := `SELECT id, client_id, secret, name, is_confidential, redirect_uris, grant_types, is_active, created_at
			  FROM oauth_clients WHERE id = $1`

	return p.scanClient(database.GetTx(ctx, p.db).QueryRowContext(ctx, query, id))
}

// GetByClientID retrieves a Client by its wire client_id from the PostgreSQL database.
func (p *PostgreSQLClientRepository) GetByClientID(
	ctx context.Context,
	clientID string,
) (*oauthDomain.Client, error) {
	query := `SELECT id, client_id, secret, name, is_confidential, redirect_uris, grant_types, is_active, created_at
			  FROM oauth_clients WHERE client_id = $1`

	return p.scanClient(database.GetTx(ctx, p.db).QueryRowContext(ctx, query, clientID))
}

func (p *PostgreSQLClientRepository) scanClient(row *sql.Row) (*oauthDomain.Client, error) {
	var client oauthDomain.Client
	var redirectURIsJSON, grantTypesJSON []byte

	err := row.Scan(
		&client.ID,
		&client.ClientID,
		&client.Secret,
		&client.Name,
		&client.IsConfidential,
		&redirectURIsJSON,
		&grantTypesJSON,
		&client.IsActive,
		&client.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, oauthDomain.ErrClientNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get client")
	}

	if err := json.Unmarshal(redirectURIsJSON, &client.RedirectURIs); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal redirect uris")
	}
	if err := json.Unmarshal(grantTypesJSON, &client.GrantTypes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal grant types")
	}

	return &client, nil
}

// NewPostgreSQLClientRepository creates a new PostgreSQL Client repository.
func NewPostgreSQLClientRepository(db *sql.DB) *PostgreSQLClientRepository {
	return &PostgreSQLClientRepository{db: db}
}
