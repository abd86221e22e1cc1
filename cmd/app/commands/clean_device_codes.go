package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	oauthUseCase "github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/usecase"
)

// RunCleanDeviceCodes deletes expired device codes and resolved codes older
// than the retention window. Supports dry-run mode to preview deletion counts
// and both text/JSON output formats.
//
// Requirements: Database must be migrated and accessible.
func RunCleanDeviceCodes(
	ctx context.Context,
	deviceFlowUseCase oauthUseCase.DeviceFlowUseCase,
	logger *slog.Logger,
	w io.Writer,
	retentionDays int,
	dryRun bool,
	format string,
) error {
	// Validate retention parameter
	if retentionDays < 0 {
		return fmt.Errorf("retention-days must be a positive number, got: %d", retentionDays)
	}

	logger.Info("cleaning device codes",
		slog.Int("retention_days", retentionDays),
		slog.Bool("dry_run", dryRun),
	)

	expiredCount, err := deviceFlowUseCase.CleanupExpired(ctx, dryRun)
	if err != nil {
		return fmt.Errorf("failed to cleanup expired device codes: %w", err)
	}

	resolvedCount, err := deviceFlowUseCase.CleanupResolved(ctx, retentionDays, dryRun)
	if err != nil {
		return fmt.Errorf("failed to cleanup resolved device codes: %w", err)
	}

	// Output result based on format
	if format == "json" {
		outputCleanDeviceCodesJSON(w, expiredCount, resolvedCount, dryRun)
	} else {
		outputCleanDeviceCodesText(w, expiredCount, resolvedCount, dryRun)
	}

	logger.Info("cleanup completed",
		slog.Int64("expired", expiredCount),
		slog.Int64("resolved", resolvedCount),
		slog.Bool("dry_run", dryRun),
	)

	return nil
}

// outputCleanDeviceCodesText outputs the result in human-readable text format.
func outputCleanDeviceCodesText(w io.Writer, expired, resolved int64, dryRun bool) {
	if dryRun {
		_, _ = fmt.Fprintf(w, "Dry-run mode: Would delete %d expired and %d resolved device code(s)\n", expired, resolved)
	} else {
		_, _ = fmt.Fprintf(w, "Successfully deleted %d expired and %d resolved device code(s)\n", expired, resolved)
	}
}

// outputCleanDeviceCodesJSON outputs the result in JSON format for machine consumption.
func outputCleanDeviceCodesJSON(w io.Writer, expired, resolved int64, dryRun bool) {
	result := map[string]interface{}{
		"expired":  expired,
		"resolved": resolved,
		"dry_run":  dryRun,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(w, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(w, string(jsonBytes))
}
