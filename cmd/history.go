package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var historyLimit int

// historyCmd represents the base command for search history operations
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View search history",
	Long:  `Displays past search queries recorded by the analytics worker.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listHistoryCmd.RunE(cmd, args)
	},
}

var listHistoryCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent search queries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		queries, err := appInstance.HistoryStore.ListSearchQueries(cmd.Context(), historyLimit)
		if err != nil {
			return fmt.Errorf("error listing search history: %w", err)
		}

		if len(queries) == 0 {
			fmt.Println("No search history found.")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"ID", "Query", "Results", "Confidence", "Executed At"})
		table.SetBorder(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)

		for _, q := range queries {
			confidence := "-"
			if q.Confidence > 0 {
				confidence = fmt.Sprintf("%.2f", q.Confidence)
			}
			table.Append([]string{
				strconv.FormatInt(q.ID, 10),
				q.Query,
				strconv.Itoa(q.ResultsCount),
				confidence,
				q.ExecutedAt.Format("2006-01-02 15:04:05"),
			})
		}
		table.Render()
		return nil
	},
}

func init() {
	listHistoryCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of history entries to show")

	historyCmd.AddCommand(listHistoryCmd)
	rootCmd.AddCommand(historyCmd)
}
