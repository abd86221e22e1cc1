package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	oauthDomain "github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/domain"
	oauthService "github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/service"
	oauthUseCase "github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/usecase"
)

// CreateClientParams holds the registration data for a new OAuth client.
type CreateClientParams struct {
	Name           string
	ClientID       string
	IsConfidential bool
	RedirectURIs   []string
	GrantTypes     []string
	IsActive       bool
	Format         string
}

// createClientOutput is what gets printed after a successful registration.
// The plain secret is shown exactly once; only its hash is stored.
type createClientOutput struct {
	ID           uuid.UUID `json:"id"`
	ClientID     string    `json:"client_id"`
	ClientSecret string    `json:"client_secret,omitempty"`
	Name         string    `json:"name"`
	IsActive     bool      `json:"is_active"`
}

// RunCreateClient registers a new OAuth client. Confidential clients get a
// generated secret which is printed once and stored only as a hash.
//
// Requirements: Database must be migrated and accessible.
func RunCreateClient(
	ctx context.Context,
	clientRepository oauthUseCase.ClientRepository,
	secretService oauthService.SecretService,
	logger *slog.Logger,
	w io.Writer,
	params CreateClientParams,
) error {
	if params.Name == "" {
		return fmt.Errorf("client name is required")
	}

	logger.Info("creating new client", slog.String("name", params.Name))

	clientID := params.ClientID
	if clientID == "" {
		clientID = uuid.Must(uuid.NewV7()).String()
	}

	grantTypes := params.GrantTypes
	if len(grantTypes) == 0 {
		grantTypes = []string{oauthDomain.DeviceCodeGrantType}
	}

	var plainSecret, hashedSecret string
	if params.IsConfidential {
		var err error
		plainSecret, hashedSecret, err = secretService.GenerateSecret()
		if err != nil {
			return fmt.Errorf("failed to generate client secret: %w", err)
		}
	}

	client := &oauthDomain.Client{
		ID:             uuid.Must(uuid.NewV7()),
		ClientID:       clientID,
		Secret:         hashedSecret,
		Name:           params.Name,
		IsConfidential: params.IsConfidential,
		RedirectURIs:   params.RedirectURIs,
		GrantTypes:     grantTypes,
		IsActive:       params.IsActive,
		CreatedAt:      time.Now().UTC(),
	}

	if err := clientRepository.Create(ctx, client); err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	output := createClientOutput{
		ID:           client.ID,
		ClientID:     client.ClientID,
		ClientSecret: plainSecret,
		Name:         client.Name,
		IsActive:     client.IsActive,
	}

	if params.Format == "json" {
		outputCreateClientJSON(w, output)
	} else {
		outputCreateClientText(w, output)
	}

	logger.Info("client created successfully",
		slog.String("client_id", client.ClientID),
		slog.String("name", client.Name),
		slog.Bool("is_active", client.IsActive),
	)

	return nil
}

// outputCreateClientText outputs the result in human-readable text format.
func outputCreateClientText(w io.Writer, output createClientOutput) {
	_, _ = fmt.Fprintf(w, "Client created successfully\n")
	_, _ = fmt.Fprintf(w, "  ID:        %s\n", output.ID)
	_, _ = fmt.Fprintf(w, "  client_id: %s\n", output.ClientID)
	if output.ClientSecret != "" {
		_, _ = fmt.Fprintf(w, "  secret:    %s\n", output.ClientSecret)
		_, _ = fmt.Fprintf(w, "\nStore the secret now: it cannot be recovered later.\n")
	}
}

// outputCreateClientJSON outputs the result in JSON format for machine consumption.
func outputCreateClientJSON(w io.Writer, output createClientOutput) {
	jsonBytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(w, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(w, string(jsonBytes))
}
