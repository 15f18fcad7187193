// Package main provides the muse binary entry point. Muse turns a
// single natural-language prompt into social media content through a
// staged generation workflow, served over HTTP or run as a one-shot
// command.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// Missing .env is fine; configuration falls back to config files
	// and process environment.
	_ = godotenv.Load()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "muse",
		Short: "Content generation workflow service",
		Long: `Muse orchestrates a multi-stage content generation workflow:
a prompt is parsed for requested modalities, enhanced by a language
model, expanded into audio and image assets in parallel, and finished
with a social media description once the requested assets exist.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(serveCmd())
	cmd.AddCommand(generateCmd())

	return cmd
}
