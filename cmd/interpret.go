package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var interpretBatch bool

var interpretCmd = &cobra.Command{
	Use:   "interpret [query...]",
	Short: "Interpret a search query without searching",
	Long: `Runs the AI query interpreter and prints the structured result as JSON.
With --batch every argument is interpreted as a separate query, concurrently.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get app from context: %w", err)
		}
		ctx := cmd.Context()

		names, err := appInstance.CatalogStore.ProductNames(ctx, appInstance.Config.Interpreter.CatalogLimit)
		if err != nil {
			log.Warnf("Failed to load product names for interpretation: %v", err)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		if interpretBatch {
			return enc.Encode(appInstance.Interpreter.InterpretBatch(ctx, args, names))
		}
		return enc.Encode(appInstance.Interpreter.Interpret(ctx, strings.Join(args, " "), names))
	},
}

func init() {
	rootCmd.AddCommand(interpretCmd)

	interpretCmd.Flags().BoolVar(&interpretBatch, "batch", false, "Treat each argument as a separate query")
}
