package cmd

import (
	"os"

	"github.com/abhisek/studypack/internal/app"
	"github.com/abhisek/studypack/internal/review"
	"github.com/abhisek/studypack/internal/screen"
	"github.com/abhisek/studypack/internal/screens/home"
	reviewscreen "github.com/abhisek/studypack/internal/screens/review"
	studyscreen "github.com/abhisek/studypack/internal/screens/study"
	"github.com/spf13/cobra"
)

// runLibrary opens the material library, from which drafts are reviewed
// and published packs studied.
func runLibrary(cmd *cobra.Command, args []string) error {
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

	timeout := env.cfg.Backend.Timeout
	opener := browserOpener(os.Getenv("BROWSER"))
	lib := home.New(ctx, home.Options{
		Materials: env.store.Materials(),
		Study: func(materialID string) screen.Screen {
			return studyscreen.New(ctx, client, materialID, opener, timeout)
		},
		Review: func(materialID, videoURL string) screen.Screen {
			return reviewscreen.New(ctx, review.New(client, materialID, videoURL, env.logger), timeout)
		},
	})
	return app.Run(lib, sessionStatus(client))
}
