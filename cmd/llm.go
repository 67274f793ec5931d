package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/abhisek/studypack/internal/llm"
	"github.com/abhisek/studypack/internal/store"
	"github.com/spf13/cobra"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the generative calls behind study packs",
	Long: `Every summary, quiz and flashcard call is recorded with its prompt,
response, token usage and latency. A failed call means the stage fell back to
its default content.`,
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent generative calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		if err := validatePurpose(purpose); err != nil {
			return err
		}

		env, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer env.Close()

		events, err := env.store.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit, Purpose: purpose})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if len(events) == 0 {
			fmt.Println("No generative calls recorded yet.")
			return nil
		}

		rows := make([][]string, 0, len(events))
		for _, e := range events {
			outcome := "ok"
			if !e.Success {
				outcome = "fallback"
			}
			rows = append(rows, []string{
				strconv.Itoa(e.ID),
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Purpose,
				truncate(e.Model, 28),
				strconv.Itoa(e.InputTokens),
				strconv.Itoa(e.OutputTokens),
				strconv.FormatInt(e.LatencyMs, 10),
				outcome,
			})
		}
		printTable([]string{"ID", "Time", "Stage", "Model", "In", "Out", "Ms", "Outcome"}, rows, 0, 4, 5, 6)
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the prompt and response of one call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q", args[0])
		}

		env, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer env.Close()

		e, err := env.store.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("call %d not found", id)
		}

		fmt.Printf("Call %d · %s · %s\n", e.ID, e.Purpose, e.Timestamp.Local().Format("2006-01-02 15:04:05"))
		fmt.Printf("Model:    %s (%s)\n", e.Model, e.Provider)
		fmt.Printf("Tokens:   %d in / %d out, %dms\n", e.InputTokens, e.OutputTokens, e.LatencyMs)
		if c := llm.LookupCost(e.Model); c != nil {
			fmt.Printf("Cost:     %s\n", formatCost(c.Cost(e.InputTokens, e.OutputTokens)))
		}
		if !e.Success {
			fmt.Printf("Failed:   %s\n", e.ErrorMessage)
			fmt.Printf("          the %s stage used its fallback content\n", e.Purpose)
		}

		section("Prompt", e.RequestBody)
		section("Response", e.ResponseBody)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage, fallback rate and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer env.Close()

		repo, ctx := env.store.EventRepo(), cmd.Context()
		byStage, err := repo.LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		if len(byStage) == 0 {
			fmt.Println("No generative calls recorded yet.")
			return nil
		}

		var total store.LLMUsage
		rows := make([][]string, 0, len(byStage)+1)
		for _, u := range byStage {
			rows = append(rows, usageRow(u.Purpose, u))
			total.Calls += u.Calls
			total.InputTokens += u.InputTokens
			total.OutputTokens += u.OutputTokens
			total.Failures += u.Failures
		}
		rows = append(rows, usageRow("total", total))
		fmt.Println("By stage")
		printTable([]string{"Stage", "Calls", "Input", "Output", "Fallbacks"}, rows, 1, 2, 3, 4)

		byModel, err := repo.LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}

		var (
			sum     float64
			unknown []string
		)
		rows = make([][]string, 0, len(byModel))
		for _, u := range byModel {
			cost := "?"
			if c := llm.LookupCost(u.Model); c != nil {
				usd := c.Cost(u.InputTokens, u.OutputTokens)
				sum += usd
				cost = formatCost(usd)
			} else {
				unknown = append(unknown, u.Model)
			}
			rows = append(rows, []string{
				truncate(u.Model, 32),
				strconv.Itoa(u.Calls),
				strconv.FormatInt(u.AvgLatencyMs, 10),
				cost,
			})
		}
		fmt.Println("\nBy model (estimated USD)")
		printTable([]string{"Model", "Calls", "Avg ms", "Cost"}, rows, 1, 2, 3)

		if len(unknown) > 0 {
			fmt.Printf("Total at least %s; no pricing for %s\n", formatCost(sum), strings.Join(unknown, ", "))
		} else {
			fmt.Printf("Total %s\n", formatCost(sum))
		}
		return nil
	},
}

func usageRow(label string, u store.LLMUsage) []string {
	fallbacks := "0"
	if u.Failures > 0 {
		fallbacks = fmt.Sprintf("%d (%.0f%%)", u.Failures, float64(u.Failures)/float64(u.Calls)*100)
	}
	return []string{
		label,
		strconv.Itoa(u.Calls),
		strconv.Itoa(u.InputTokens),
		strconv.Itoa(u.OutputTokens),
		fallbacks,
	}
}

// section prints a captured body, indenting it when it is JSON.
func section(title, body string) {
	fmt.Printf("\n%s\n%s\n", title, strings.Repeat("─", 60))
	if body == "" {
		fmt.Println("(not captured)")
		return
	}
	var pretty bytes.Buffer
	if json.Indent(&pretty, []byte(body), "", "  ") == nil {
		fmt.Println(pretty.String())
		return
	}
	fmt.Println(body)
}

func validatePurpose(p string) error {
	switch p {
	case "", "summary", "quiz", "flashcards":
		return nil
	}
	return fmt.Errorf("unknown stage %q (want summary, quiz or flashcards)", p)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of calls to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only show one stage: summary, quiz or flashcards")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
