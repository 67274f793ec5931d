package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/studypack/internal/app"
	"github.com/abhisek/studypack/internal/importer"
	"github.com/abhisek/studypack/internal/review"
	"github.com/abhisek/studypack/internal/screen"
	"github.com/abhisek/studypack/internal/screens/generate"
	reviewscreen "github.com/abhisek/studypack/internal/screens/review"
	"github.com/abhisek/studypack/internal/studypack"
	"github.com/abhisek/studypack/internal/transcript"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Generate a study pack from a video, document or pasted text",
	Long: `Acquire the material text, generate a summary, key points, quiz and
flashcards, store them locally and, when signed in, upload the pack as a
review draft.

Exactly one of --youtube, --file or --text is required.`,
	Example: `  studypack import --youtube https://www.youtube.com/watch?v=abc123 --title "Photosynthesis"
  studypack import --file notes/week1.txt --notes "focus on definitions"
  studypack import --text "$(pbpaste)" --plain`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().String("youtube", "", "YouTube video URL")
	importCmd.Flags().String("file", "", "Path to a plain text document")
	importCmd.Flags().String("text", "", "Material text, pasted directly")
	importCmd.Flags().String("title", "", "Material title (defaults to the file name or URL)")
	importCmd.Flags().String("notes", "", "Instructions for the generator, e.g. what to emphasize")
	importCmd.Flags().String("module", "", "Module ID the material belongs to")
	importCmd.Flags().String("course", "", "Course ID the material belongs to")
	importCmd.Flags().Bool("no-upload", false, "Keep the pack local even when signed in")
	importCmd.Flags().Bool("plain", false, "Print progress lines instead of the full-screen UI")
	importCmd.MarkFlagsMutuallyExclusive("youtube", "file", "text")
	importCmd.MarkFlagsOneRequired("youtube", "file", "text")
}

func importRequest(cmd *cobra.Command) (importer.Request, error) {
	flags := cmd.Flags()
	youtube, _ := flags.GetString("youtube")
	file, _ := flags.GetString("file")
	text, _ := flags.GetString("text")

	var req importer.Request
	switch {
	case youtube != "":
		req.Source = transcript.Source{Kind: transcript.KindYouTube, URL: youtube}
	case file != "":
		req.Source = transcript.Source{Kind: transcript.KindDocument, Path: file}
	case strings.TrimSpace(text) != "":
		req.Source = transcript.Source{Kind: transcript.KindManual, Text: text}
	default:
		return req, errors.New("material text is empty")
	}

	req.Title, _ = flags.GetString("title")
	req.Notes, _ = flags.GetString("notes")
	req.ModuleID, _ = flags.GetString("module")
	req.CourseID, _ = flags.GetString("course")
	return req, nil
}

func runImport(cmd *cobra.Command, args []string) error {
	req, err := importRequest(cmd)
	if err != nil {
		return err
	}
	plain, _ := cmd.Flags().GetBool("plain")
	noUpload, _ := cmd.Flags().GetBool("no-upload")

	env, err := setup(cmd, plain)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	asm, err := env.assembler(ctx)
	if err != nil {
		return err
	}
	client, err := env.client(ctx)
	if err != nil {
		return err
	}

	var uploader importer.Uploader
	if client.Session().SignedIn() && !noUpload {
		uploader = client
	}
	imp := importer.New(transcript.NewAcquirer(client, env.logger), asm, env.store, uploader, env.logger)

	if plain {
		return importPlain(ctx, cmd, imp, req, uploader != nil)
	}

	job := func(ctx context.Context, progress studypack.ProgressFunc) (*importer.Result, error) {
		return imp.Import(ctx, req, progress)
	}
	next := func(r *importer.Result) screen.Screen {
		wf := review.New(client, r.Material.ID, r.Material.SourceURL, env.logger)
		return reviewscreen.New(ctx, wf, env.cfg.Backend.Timeout)
	}
	return app.Run(generate.New(ctx, importer.Title(req), job, next), sessionStatus(client))
}

func importPlain(ctx context.Context, cmd *cobra.Command, imp *importer.Importer, req importer.Request, upload bool) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Importing %s\n", importer.Title(req))

	res, err := imp.Import(ctx, req, func(p studypack.Progress) {
		fmt.Fprintln(out, p.Label)
	})
	if err != nil {
		return err
	}

	p := res.Pack
	fmt.Fprintf(out, "\nStudy pack ready: %d key points, %d quiz questions, %d flashcards\n",
		len(p.KeyPoints), len(p.Quiz.Questions), len(p.Flashcards))
	fmt.Fprintf(out, "Material: %s\n", res.Material.ID)
	fmt.Fprintf(out, "Pack:     %s\n", p.ID)

	switch {
	case res.Uploaded:
		fmt.Fprintf(out, "\nUploaded for review. Next: studypack review %s\n", res.Material.ID)
	case res.UploadErr != nil:
		fmt.Fprintf(out, "\nSaved locally. Upload failed: %v\n", res.UploadErr)
	case !upload:
		fmt.Fprintln(out, "\nSaved locally. Sign in with `studypack login` to upload it for review.")
	}
	return nil
}
