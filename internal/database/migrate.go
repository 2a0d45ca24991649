package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"study-buddy/internal/logger"

	"go.uber.org/zap"
)

// DefaultMigrationsDir is relative to the repository root.
const DefaultMigrationsDir = "database/migrations"

// ORA-00955: name is already used by an existing object.
const oraObjectExists = "ORA-00955"

// RunMigrations executes every *.up.sql file in migrationsDir in name order.
// Each file holds one statement. Objects that already exist are skipped, so
// the command can be re-run against a migrated schema.
func RunMigrations(ctx context.Context, db *sql.DB, migrationsDir string) (int, error) {
	files, err := os.ReadDir(migrationsDir)
	if err != nil {
		return 0, fmt.Errorf("could not read migrations directory: %w", err)
	}

	applied := 0
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".up.sql") {
			continue
		}

		content, err := os.ReadFile(filepath.Join(migrationsDir, file.Name()))
		if err != nil {
			return applied, fmt.Errorf("could not read migration file %s: %w", file.Name(), err)
		}

		stmt := strings.TrimRight(strings.TrimSpace(string(content)), ";")
		if stmt == "" {
			continue
		}

		if _, err := db.ExecContext(ctx, stmt); err != nil {
			if strings.Contains(err.Error(), oraObjectExists) {
				logger.Get().Info("Migration already applied", zap.String("file", file.Name()))
				continue
			}
			return applied, fmt.Errorf("could not execute migration %s: %w", file.Name(), err)
		}

		applied++
		logger.Get().Info("Executed migration", zap.String("file", file.Name()))
	}

	logger.Get().Info("Migrations completed successfully", zap.Int("applied", applied))
	return applied, nil
}
