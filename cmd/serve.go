package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/abhisek/studypack/internal/server"
	"github.com/abhisek/studypack/internal/transcript"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the reference backend for review drafts, study packs and transcripts",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer env.Close()

		cfg := env.cfg.Server
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}
		if env.cfg.Log.Level != "debug" {
			gin.SetMode(gin.ReleaseMode)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		asm, err := env.assembler(ctx)
		if err != nil {
			return err
		}
		srv, err := server.New(cfg, server.Deps{
			Store:       env.store,
			Assembler:   asm,
			Transcripts: transcript.NewCaptionScraper(cfg.TranscriptTimeout),
			Logger:      env.logger,
		})
		if err != nil {
			return err
		}
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
