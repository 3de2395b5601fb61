// Copyright (C) 2025 FridgeChef Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generates a random master secret",
	Long: `Prints a freshly generated 256-bit master secret in hex, suitable for
the ` + masterSecretEnv + ` environment variable. Rotating the master secret
invalidates every stored key; users must re-enter theirs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		secret := make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return fmt.Errorf("generating secret: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(secret))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(keygenCmd)
}
