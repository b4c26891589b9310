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

	"github.com/kpfile/Minecraft-Server-Mod/config"
	"github.com/kpfile/Minecraft-Server-Mod/serverdb"
	"github.com/kpfile/Minecraft-Server-Mod/serverdb/flatdb"
	"github.com/kpfile/Minecraft-Server-Mod/serverdb/pgdb"
)

// openSource opens the persistence backend selected by the configuration.
func openSource(ctx context.Context, cfg *config.Config) (serverdb.Source, error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		return pgdb.Connect(ctx, cfg.Database.ConnString())
	case config.BackendFlatFile:
		return flatdb.Open(cfg.FlatFile.Dir)
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// openStore opens the configured backend, wraps it in a store and fills
// the caches. The caller owns the store and must Close it.
func openStore(ctx context.Context, cfg *config.Config) (*serverdb.Store, error) {
	src, err := openSource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var opts []serverdb.Option
	if !cfg.SaveHomes {
		opts = append(opts, serverdb.WithoutHomes())
	}
	store := serverdb.NewStore(src, opts...)
	if err := store.Initialize(ctx); err != nil {
		_ = src.Close()
		return nil, fmt.Errorf("initialize caches: %w", err)
	}
	return store, nil
}
