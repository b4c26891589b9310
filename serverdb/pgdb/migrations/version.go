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

package migrations

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GetMigrationFiles returns the embedded migration files.
func GetMigrationFiles() embed.FS {
	return migrationFiles
}

// CheckVersion verifies that the database is at the latest embedded
// migration version. Set GAMEDB_MIGRATION_CHECK_ENABLED=false to skip the
// check (useful against a database another process is migrating).
func CheckVersion(ctx context.Context, pool *pgxpool.Pool) error {
	if val := os.Getenv("GAMEDB_MIGRATION_CHECK_ENABLED"); strings.EqualFold(val, "false") {
		return nil
	}

	expected, err := latestMigrationVersion()
	if err != nil {
		return err
	}

	m, cleanup, err := newMigrator(pool)
	if err != nil {
		return err
	}
	defer cleanup()

	current, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("database has no migrations applied, expected version %d (run the migrate command)", expected)
	}
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database migration state is dirty at version %d", current)
	}
	if current != expected {
		return fmt.Errorf("database at migration version %d, expected %d (run the migrate command)", current, expected)
	}
	return nil
}

// latestMigrationVersion extracts the highest version number from the
// embedded *.up.sql file names.
func latestMigrationVersion() (uint, error) {
	entries, err := migrationFiles.ReadDir(".")
	if err != nil {
		return 0, fmt.Errorf("failed to read migration directory: %w", err)
	}

	var maxVersion uint
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".up.sql") {
			continue
		}
		prefix, _, _ := strings.Cut(name, "_")
		version, err := strconv.ParseUint(prefix, 10, 64)
		if err != nil {
			continue
		}
		if uint(version) > maxVersion {
			maxVersion = uint(version)
		}
	}
	if maxVersion == 0 {
		return 0, errors.New("no embedded migration files found")
	}
	return maxVersion, nil
}
