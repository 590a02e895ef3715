package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"os"

	"github.com/kitaerp/glposting/internal/apperrors"
	"github.com/kitaerp/glposting/internal/core/services"
	"github.com/kitaerp/glposting/internal/dto"
	"github.com/kitaerp/glposting/internal/platform/config"
	"github.com/kitaerp/glposting/internal/platform/logging"
	"github.com/kitaerp/glposting/internal/repositories/database/pgsql"
	"github.com/kitaerp/glposting/pkg/database"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// glposting validates a journal posting request against the chart of
// accounts and prints the posting result (or the typed posting error) as
// JSON. Usage: glposting <request.json>
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil)).With(
		slog.String("request_id", uuid.NewString()),
	)
	slog.SetDefault(logger)

	if len(os.Args) != 2 {
		logger.Error("Usage: glposting <request.json>")
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := logging.ContextWithLogger(context.Background(), logger)

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := runMigrations(cfg, logger); err != nil {
		logger.Error("Migrations failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos := pgsql.NewRepositories(dbPool)
	container := services.NewContainer(cfg, repos.Accounts, repos.Rates, nil)

	raw, err := os.ReadFile(os.Args[1])
	if err != nil {
		logger.Error("Failed to read request file", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var req dto.PostJournalRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		logger.Error("Failed to parse request JSON", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := req.Validate(); err != nil {
		logger.Error("Request failed schema validation", slog.String("error", err.Error()))
		os.Exit(1)
	}
	domainReq, err := req.ToDomain()
	if err != nil {
		logger.Error("Request failed shape checks", slog.String("error", err.Error()))
		os.Exit(1)
	}

	result, err := container.Posting.PostJournal(ctx, domainReq)
	if err != nil {
		var pe *apperrors.PostingError
		if errors.As(err, &pe) {
			printJSON(dto.ToPostingErrorResponse(pe))
			os.Exit(1)
		}
		logger.Error("Posting failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	printJSON(dto.ToPostingResultResponse(result))
}

func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance(cfg.MigrationsPath, "postgres", driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	logger.Info("Database migrations applied")
	return nil
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		slog.Error("Failed to encode output", slog.String("error", err.Error()))
	}
}
