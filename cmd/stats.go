package cmd

import (
	"fmt"
	"strconv"

	"github.com/abhisek/studypack/internal/store"
	"github.com/abhisek/studypack/internal/studypack"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats <materialId>",
	Short: "Show quiz attempts recorded for a material's published pack",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		env, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer env.Close()

		ctx := cmd.Context()
		rec, err := env.store.Packs().LatestPublished(ctx, args[0])
		if err != nil {
			return fmt.Errorf("load study pack: %w", err)
		}
		if rec == nil {
			fmt.Println("No published study pack for this material.")
			return nil
		}
		pack, err := studypack.PackFromRecord(rec)
		if err != nil {
			return err
		}

		attempts, err := env.store.EventRepo().QueryQuizAttempts(ctx, pack.Quiz.ID, store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query attempts: %w", err)
		}
		if len(attempts) == 0 {
			fmt.Println("No quiz attempts recorded yet.")
			return nil
		}

		var correct, total int
		rows := make([][]string, 0, len(attempts))
		for _, a := range attempts {
			rows = append(rows, []string{
				strconv.Itoa(a.ID),
				a.Timestamp.Local().Format("2006-01-02 15:04:05"),
				truncate(a.UserID, 24),
				fmt.Sprintf("%d/%d", a.Score, a.Total),
			})
			correct += a.Score
			total += a.Total
		}
		printTable([]string{"ID", "Time", "Student", "Score"}, rows, 0, 3)

		avg := 0.0
		if total > 0 {
			avg = float64(correct) / float64(total) * 100
		}
		fmt.Printf("%d attempts, average %.0f%%\n", len(attempts), avg)
		return nil
	},
}

func init() {
	statsCmd.Flags().IntP("limit", "n", 50, "Number of attempts to show")
}
