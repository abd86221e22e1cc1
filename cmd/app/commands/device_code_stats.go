package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	oauthUseCase "github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/usecase"
)

// RunDeviceCodeStats prints counts of device codes by state in text or JSON
// format.
//
// Requirements: Database must be migrated and accessible.
func RunDeviceCodeStats(
	ctx context.Context,
	deviceFlowUseCase oauthUseCase.DeviceFlowUseCase,
	logger *slog.Logger,
	w io.Writer,
	format string,
) error {
	stats, err := deviceFlowUseCase.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to get device code stats: %w", err)
	}

	if format == "json" {
		jsonBytes, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, _ = fmt.Fprintln(w, string(jsonBytes))
	} else {
		_, _ = fmt.Fprintf(w, "Device codes:\n")
		_, _ = fmt.Fprintf(w, "  Active:     %d\n", stats.Active)
		_, _ = fmt.Fprintf(w, "  Authorized: %d\n", stats.Authorized)
		_, _ = fmt.Fprintf(w, "  Expired:    %d\n", stats.Expired)
	}

	logger.Info("device code stats",
		slog.Int64("active", stats.Active),
		slog.Int64("authorized", stats.Authorized),
		slog.Int64("expired", stats.Expired),
	)

	return nil
}
