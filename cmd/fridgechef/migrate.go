// Copyright (C) 2025 FridgeChef Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/NavvAbhishek/FridgeChef/pkg/logging"
	"github.com/NavvAbhishek/FridgeChef/services/credentials"
	"github.com/NavvAbhishek/FridgeChef/services/kitchen/storage"
)

var migrateConfigPath string

var migrateCmd = &cobra.Command{
	Use:   "migrate-credentials",
	Short: "Moves legacy Gemini-only keys into the current credential fields",
	Long: `Walks every stored credential record and re-encrypts any legacy
single-provider key into the current provider/model fields. Run this with
the server stopped; it opens the database exclusively.`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().StringVarP(&migrateConfigPath, "config", "c", "", "path to YAML config file")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(migrateConfigPath)
	if err != nil {
		return err
	}

	logger := logging.New(logging.Config{
		Level:   parseLogLevel(cfg.Log.Level),
		LogDir:  cfg.Log.Dir,
		Service: "migrate",
		JSON:    cfg.Log.JSON,
	})
	defer logger.Close()
	slog.SetDefault(logger.Slog())

	cipher, err := credentials.NewCipher(os.Getenv(masterSecretEnv))
	if err != nil {
		return fmt.Errorf("%s must be set: %w", masterSecretEnv, err)
	}

	db, err := storage.Open(storage.DefaultConfig(cfg.DataDir))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	store := credentials.NewBadgerStore(db.DB)
	// Validation is not needed for a re-encryption pass.
	manager := credentials.NewManager(store, cipher, credentials.NewLiveValidator(15*time.Second))

	ctx := cmd.Context()
	var userIDs []string
	err = store.Scan(ctx, func(userID string, rec credentials.Record) error {
		userIDs = append(userIDs, userID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("scanning records: %w", err)
	}

	var migrated, skipped, failed int
	for _, userID := range userIDs {
		moved, err := manager.MigrateLegacy(ctx, userID)
		switch {
		case err != nil:
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "user %s: %v\n", userID, err)
		case moved:
			migrated++
		default:
			skipped++
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "migrated %d, skipped %d, failed %d (of %d records)\n",
		migrated, skipped, failed, len(userIDs))
	if failed > 0 {
		return fmt.Errorf("%d records failed to migrate", failed)
	}
	return nil
}
