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
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/kpfile/Minecraft-Server-Mod/config"
	"github.com/kpfile/Minecraft-Server-Mod/internal/launcher"
)

func init() {
	rootCmd.AddCommand(BootstrapCmd)
}

var BootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Prepare the game server for startup",
	Long:  "Download the game server binary if missing, load the administrative state and check it for dangling references.",
	RunE:  runBootstrap,
}

func runBootstrap(_ *cobra.Command, _ []string) error {
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(10*time.Minute))
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	downloaded, err := launcher.EnsureServerBinary(ctx, cfg.Launcher.ServerBinary, cfg.Launcher.DownloadURL)
	if err != nil {
		return err
	}
	if !downloaded {
		slog.Info("server binary already present", slog.String("path", cfg.Launcher.ServerBinary))
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		_ = store.Close()
	}()

	for category, n := range store.Counts() {
		slog.Info("loaded", slog.String("category", category), slog.Int("count", n))
	}

	if err := store.CheckConsistency(); err != nil {
		slog.Warn("administrative state has dangling references", slog.Any("error", err))
	} else {
		slog.Info("administrative state is consistent")
	}
	return nil
}
