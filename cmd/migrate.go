// Copyright (C) 2026 kpfile
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/kpfile/Minecraft-Server-Mod/config"
	"github.com/kpfile/Minecraft-Server-Mod/internal/dbopen"
	"github.com/kpfile/Minecraft-Server-Mod/serverdb/pgdb/migrations"
)

func init() {
	rootCmd.AddCommand(MigrateCmd)
}

var MigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long:  "Bring the game database schema up to the version this binary expects",
	RunE:  runMigrate,
}

func runMigrate(_ *cobra.Command, _ []string) error {
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(5*time.Minute))
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Backend != config.BackendPostgres {
		slog.Info("backend does not use a database, nothing to migrate", slog.String("backend", cfg.Backend))
		return nil
	}

	connString := cfg.Database.ConnString()
	if connString == "" {
		connString, err = dbopen.GetDatabaseURLFromEnv("GAMEDB")
		if err != nil {
			return err
		}
	}

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return fmt.Errorf("connect to game database: %w", err)
	}
	defer pool.Close()

	slog.Info("Running game database migrations")
	if err := migrations.RunMigrationsUp(ctx, pool); err != nil {
		return fmt.Errorf("failed to migrate game database: %w", err)
	}
	slog.Info("Game database migrations completed successfully")
	return nil
}
