package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/musegen/muse/internal/agent"
	"github.com/musegen/muse/internal/config"
	"github.com/musegen/muse/workflow"
)

func generateCmd() *cobra.Command {
	var modalities []string

	cmd := &cobra.Command{
		Use:   "generate <prompt>",
		Short: "Run a single generation workflow and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelWarn,
			}))

			req := agent.Request{
				RequestID:  uuid.NewString(),
				UserPrompt: args[0],
			}
			for _, m := range modalities {
				req.Modalities = append(req.Modalities, workflow.Modality(m))
			}

			rt := buildRuntime(cfg, logger)
			state, err := rt.Execute(cmd.Context(), req)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(state, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))

			if state.Status == workflow.StatusFailed {
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(
		&modalities, "modality", nil,
		"modality to generate (repeatable; overrides prompt keyword detection)",
	)

	return cmd
}
