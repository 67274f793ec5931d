package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/abhisek/studypack/internal/app"
	studyscreen "github.com/abhisek/studypack/internal/screens/study"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var studyCmd = &cobra.Command{
	Use:   "study <materialId>",
	Short: "Study a published pack: summary, key points, quiz and flashcards",
	Long: `Open the published study pack for a material.

Key points with a timestamp jump into the lecture video. When $BROWSER is
set the link is opened with it; otherwise it is shown in the status line.`,
	Args: cobra.ExactArgs(1),
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

		s := studyscreen.New(ctx, client, materialID, browserOpener(os.Getenv("BROWSER")), env.cfg.Backend.Timeout)
		return app.Run(s, sessionStatus(client))
	},
}

// browserOpener returns an Opener running browser with the URL, or nil
// when no browser is configured. browser may carry arguments.
func browserOpener(browser string) studyscreen.Opener {
	fields := strings.Fields(browser)
	if len(fields) == 0 {
		return nil
	}
	return func(url string) error {
		c := exec.Command(fields[0], append(fields[1:], url)...)
		if err := c.Start(); err != nil {
			return fmt.Errorf("open browser: %w", err)
		}
		go func() { _ = c.Wait() }()
		return nil
	}
}
