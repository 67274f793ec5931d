package cmd

import (
	"fmt"

	"github.com/abhisek/studypack/internal/app"
	"github.com/abhisek/studypack/internal/review"
	reviewscreen "github.com/abhisek/studypack/internal/screens/review"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var reviewCmd = &cobra.Command{
	Use:   "review <materialId>",
	Short: "Review, edit and approve the AI draft for a material",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		materialID := args[0]
		if _, err := uuid.Parse(materialID); err != nil {
			return fmt.Errorf("invalid material ID %q", materialID)
		}

		env, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer env.Close()

		ctx := cmd.Context()
		client, err := env.client(ctx)
		if err != nil {
			return err
		}

		// The locally imported material knows the video even when the
		// backend draft cannot be loaded.
		var videoURL string
		if m, err := env.store.Materials().Get(ctx, materialID); err == nil && m != nil {
			videoURL = m.SourceURL
		}

		wf := review.New(client, materialID, videoURL, env.logger)
		return app.Run(reviewscreen.New(ctx, wf, env.cfg.Backend.Timeout), sessionStatus(client))
	},
}
