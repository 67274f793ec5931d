package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var materialsCmd = &cobra.Command{
	Use:   "materials",
	Short: "List locally imported materials",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		env, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer env.Close()

		materials, err := env.store.Materials().List(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("list materials: %w", err)
		}
		if len(materials) == 0 {
			fmt.Println("No materials imported yet. Try: studypack import --file notes.txt")
			return nil
		}

		rows := make([][]string, 0, len(materials))
		for _, m := range materials {
			rows = append(rows, []string{
				m.ID,
				truncate(m.Title, 32),
				m.Type,
				m.Status,
				m.CreatedAt.Local().Format("2006-01-02 15:04"),
			})
		}
		printTable([]string{"ID", "Title", "Type", "Status", "Imported"}, rows)

		fmt.Printf("%d materials\n", len(materials))
		return nil
	},
}

func init() {
	materialsCmd.Flags().IntP("limit", "n", 50, "Number of materials to show")
}
