package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/allisson/litenotes/internal/app"
	authUsecase "github.com/allisson/litenotes/internal/auth/usecase"
	"github.com/allisson/litenotes/internal/config"
	userUsecase "github.com/allisson/litenotes/internal/user/usecase"
)

// RunCleanExpired deletes expired auth tokens and password reset tokens from
// the database. With days > 0, only rows that expired more than that many
// days ago are removed.
//
// Requirements: Database must be migrated and accessible.
func RunCleanExpired(ctx context.Context, days int, format string) error {
	cfg := config.Load()

	container := app.NewContainer(cfg)
	logger := container.Logger()

	// Ensure cleanup on exit
	defer closeContainer(container, logger)

	tokenRepo, err := container.TokenRepository()
	if err != nil {
		return fmt.Errorf("failed to initialize token repository: %w", err)
	}

	resetRepo, err := container.PasswordResetRepository()
	if err != nil {
		return fmt.Errorf("failed to initialize password reset repository: %w", err)
	}

	return cleanExpired(ctx, tokenRepo, resetRepo, logger, os.Stdout, days, format)
}

// cleanExpired performs the deletion with injected dependencies.
func cleanExpired(
	ctx context.Context,
	tokenRepo authUsecase.TokenRepository,
	resetRepo userUsecase.PasswordResetRepository,
	logger *slog.Logger,
	out io.Writer,
	days int,
	format string,
) error {
	if days < 0 {
		return fmt.Errorf("days must be a positive number, got: %d", days)
	}

	logger.Info("cleaning expired tokens", slog.Int("days", days))

	before := time.Now().UTC().AddDate(0, 0, -days)

	tokenCount, err := tokenRepo.DeleteExpired(ctx, before)
	if err != nil {
		return fmt.Errorf("failed to delete expired auth tokens: %w", err)
	}

	resetCount, err := resetRepo.DeleteExpired(ctx, before)
	if err != nil {
		return fmt.Errorf("failed to delete expired password reset tokens: %w", err)
	}

	if format == "json" {
		outputCleanExpiredJSON(out, tokenCount, resetCount, days)
	} else {
		outputCleanExpiredText(out, tokenCount, resetCount, days)
	}

	logger.Info("cleanup completed",
		slog.Int64("auth_tokens", tokenCount),
		slog.Int64("password_resets", resetCount),
		slog.Int("days", days),
	)

	return nil
}

// outputCleanExpiredText outputs the result in human-readable text format.
func outputCleanExpiredText(out io.Writer, tokenCount, resetCount int64, days int) {
	fmt.Fprintf(
		out,
		"Deleted %d expired auth token(s) and %d password reset token(s) older than %d day(s)\n",
		tokenCount, resetCount, days,
	)
}

// outputCleanExpiredJSON outputs the result in JSON format for machine consumption.
func outputCleanExpiredJSON(out io.Writer, tokenCount, resetCount int64, days int) {
	result := map[string]interface{}{
		"auth_tokens":     tokenCount,
		"password_resets": resetCount,
		"days":            days,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	fmt.Fprintln(out, string(jsonBytes))
}
