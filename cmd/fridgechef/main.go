// Copyright (C) 2025 FridgeChef Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "fridgechef",
	Short: "A CLI to run and administer the FridgeChef kitchen service",
	Long: `FridgeChef suggests recipes from the ingredients in your fridge.
Users bring their own AI provider key; the service encrypts it at rest
and never returns or logs the plaintext.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
