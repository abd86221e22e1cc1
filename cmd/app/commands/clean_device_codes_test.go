package commands

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	useCaseMocks "github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/usecase/mocks"
)

func TestRunCleanDeviceCodes(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("text-output", func(t *testing.T) {
		mockUseCase := &useCaseMocks.MockDeviceFlowUseCase{}
		mockUseCase.On("CleanupExpired", ctx, false).Return(int64(7), nil)
		mockUseCase.On("CleanupResolved", ctx, 30, false).Return(int64(3), nil)

		var out bytes.Buffer
		err := RunCleanDeviceCodes(ctx, mockUseCase, logger, &out, 30, false, "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "Successfully deleted 7 expired and 3 resolved device code(s)")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("json-output-dry-run", func(t *testing.T) {
		mockUseCase := &useCaseMocks.MockDeviceFlowUseCase{}
		mockUseCase.On("CleanupExpired", ctx, true).Return(int64(5), nil)
		mockUseCase.On("CleanupResolved", ctx, 0, true).Return(int64(2), nil)

		var out bytes.Buffer
		err := RunCleanDeviceCodes(ctx, mockUseCase, logger, &out, 0, true, "json")

		require.NoError(t, err)
		require.Contains(t, out.String(), `"expired": 5`)
		require.Contains(t, out.String(), `"resolved": 2`)
		require.Contains(t, out.String(), `"dry_run": true`)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("invalid-retention-days", func(t *testing.T) {
		mockUseCase := &useCaseMocks.MockDeviceFlowUseCase{}
		err := RunCleanDeviceCodes(ctx, mockUseCase, logger, &bytes.Buffer{}, -1, false, "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "retention-days must be a positive number")
	})
}
