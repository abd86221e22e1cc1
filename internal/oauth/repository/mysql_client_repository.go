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

// MySQLClientRepository implements Client persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via database.GetTx().
type MySQLClientRepository struct {
	db *sql.DB
}

// Create inserts a new Client into the MySQL database.
func (m *MySQLClientRepository) Create(ctx context.Context, client *oauthDomain.Client) error {
	querier := database.GetTx(ctx, m.db)

	redirectURIsJSON, err := json.Marshal(client.RedirectURIs)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal redirect uris")
	}
	grantTypesJSON, err := json.Marshal(client.GrantTypes)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal grant types")
	}

	id, err := client.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal client id")
	}

	query := `INSERT INTO oauth_clients
			  (id, client_id, secret, name, is_confidential, redirect_uris, grant_types, is_active, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
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

// Get retrieves a Client by ID from the MySQL database.
func (m *MySQLClientRepository) Get(ctx context.Context, id uuid.UUID) (*oauthDomain.Client, error) {
	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal client id")
	}

	query := `SELECT id, client_id, secret, name, is_confidential, redirect_uris, grant_types, is_active, created_at
			  FROM oauth_clients WHERE id = ?`

	return m.scanClient(database.GetTx(ctx, m.db).QueryRowContext(ctx, query, idBytes))
}

// GetByClientID retrieves a Client by its wire client_id from the MySQL database.
func (m *MySQLClientRepository) GetByClientID(
	ctx context.Context,
	clientID string,
) (*oauthDomain.Client, error) {
	query := `SELECT id, client_id, secret, name, is_confidential, redirect_uris, grant_types, is_active, created_at
			  FROM oauth_clients WHERE client_id = ?`

	return m.scanClient(database.GetTx(ctx, m.db).QueryRowContext(ctx, query, clientID))
}

func (m *MySQLClientRepository) scanClient(row *sql.Row) (*oauthDomain.Client, error) {
	var client oauthDomain.Client
	var idBytes, redirectURIsJSON, grantTypesJSON []byte

	err := row.Scan(
		&idBytes,
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

	client.ID, err = uuid.FromBytes(idBytes)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal client id")
	}

	if err := json.Unmarshal(redirectURIsJSON, &client.RedirectURIs); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal redirect uris")
	}
	if err := json.Unmarshal(grantTypesJSON, &client.GrantTypes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal grant types")
	}

	return &client, nil
}

// NewMySQLClientRepository creates a new MySQL Client repository.
func NewMySQLClientRepository(db *sql.DB) *MySQLClientRepository {
	return &MySQLClientRepository{db: db}
}
