package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/abhisek/studypack/internal/config"
	"github.com/abhisek/studypack/internal/llm"
	"github.com/abhisek/studypack/internal/logging"
	"github.com/abhisek/studypack/internal/study"
	"github.com/abhisek/studypack/internal/studypack"
	"github.com/abhisek/studypack/internal/transcript"
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Preview a generated study pack for a document (no database)",
	Long: `Generate a study pack for a plain text document, print it and take the quiz.

This is a stateless developer tool: no database, no review, no upload.
Useful for evaluating prompts and providers.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().String("file", "", "Path to a plain text document (required)")
	previewCmd.Flags().String("notes", "", "Instructions for the generator")
	previewCmd.Flags().Bool("no-quiz", false, "Print the quiz instead of asking it")
	_ = previewCmd.MarkFlagRequired("file")
}

func runPreview(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	notes, _ := cmd.Flags().GetString("notes")
	noQuiz, _ := cmd.Flags().GetBool("no-quiz")

	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := cfg.LLM.Validate(); err != nil {
		return fmt.Errorf("LLM provider: %w", err)
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	// No EventRepo, so calls are not recorded.
	ctx := context.Background()
	provider, err := llm.NewProvider(ctx, cfg.LLM, nil, logger)
	if err != nil {
		return fmt.Errorf("LLM provider: %w", err)
	}

	content := transcript.NewAcquirer(nil, logger).Acquire(ctx, transcript.Source{Kind: transcript.KindDocument, Path: file})
	asm := studypack.NewAssembler(studypack.NewProducer(provider, cfg.Generation, logger), cfg.Generation, logger)

	fmt.Printf("Document: %s (%d characters)\n", file, len(content))
	fmt.Printf("Model:    %s\n\n", provider.ModelID())

	m := studypack.Material{ID: studypack.NewID(), Title: file, Type: studypack.MaterialDocument, Content: content}
	pack, err := asm.Assemble(ctx, m, notes, func(p studypack.Progress) {
		fmt.Println(p.Label)
	})
	if err != nil {
		return err
	}

	fmt.Println("\n── Summary ──")
	fmt.Println(pack.Summary)

	fmt.Println("\n── Key points ──")
	for _, kp := range pack.KeyPoints {
		fmt.Printf("  • %s\n", kp)
	}

	fmt.Printf("\n── Flashcards (%d) ──\n", len(pack.Flashcards))
	for i, c := range pack.Flashcards {
		fmt.Printf("%2d. %s\n    → %s\n", i+1, c.Front, c.Back)
	}

	if noQuiz {
		printQuiz(pack.Quiz)
		return nil
	}
	return askQuiz(pack.Quiz)
}

var letters = []string{"A", "B", "C", "D"}

func printQuiz(q studypack.Quiz) {
	fmt.Printf("\n── Quiz (%d) ──\n", len(q.Questions))
	for i, qq := range q.Questions {
		fmt.Printf("%d. %s\n", i+1, qq.Question)
		for j, opt := range qq.Options {
			mark := " "
			if j == qq.CorrectAnswer {
				mark = "*"
			}
			fmt.Printf("  %s %s) %s\n", mark, letters[j], opt)
		}
	}
}

// askQuiz runs the quiz on stdin, one question at a time.
func askQuiz(q studypack.Quiz) error {
	scanner := bufio.NewScanner(os.Stdin)
	answers := make(map[string]int, len(q.Questions))
	count := len(q.Questions)

	for i, qq := range q.Questions {
		fmt.Printf("\n── Question %d/%d ──\n", i+1, count)
		fmt.Println(qq.Question)
		for j, opt := range qq.Options {
			fmt.Printf("  %s) %s\n", letters[j], opt)
		}

		fmt.Print("\nYour answer: ")
		if !scanner.Scan() {
			fmt.Println("\n(input closed)")
			break
		}
		answer := studypack.AnswerIndex(strings.ToUpper(strings.TrimSpace(scanner.Text())))
		if answer < 0 {
			fmt.Println("(skipped)")
			continue
		}
		answers[qq.ID] = answer

		if answer == qq.CorrectAnswer {
			fmt.Println("\033[32m✓ Correct!\033[0m")
		} else {
			fmt.Printf("\033[31m✗ Wrong.\033[0m Answer: %s\n", letters[qq.CorrectAnswer])
		}
		if qq.Explanation != "" {
			fmt.Printf("Explanation: %s\n", qq.Explanation)
		}
	}

	correct, total := study.Grade(q, answers)
	fmt.Printf("\n── Summary: %d/%d correct ──\n", correct, total)
	return scanner.Err()
}
