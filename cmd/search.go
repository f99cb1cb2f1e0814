package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"vitrine/internal/app"
	"vitrine/internal/clix"
	"vitrine/internal/models"
	"vitrine/internal/search"
	"vitrine/internal/util"
)

var (
	searchLimit     int
	searchCategory  string
	searchCondition string
	searchPriceMin  int64
	searchPriceMax  int64
	searchSort      string
)

var searchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Search the catalog with AI query interpretation",
	Long: `Interprets the query through the configured AI backend (tolerating typos
and mixed French/English input), then filters and sorts the catalog.
Without arguments an interactive prompt is started.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get app from context: %w", err)
		}

		filters, order, err := searchFiltersFromFlags(cmd)
		if err != nil {
			return err
		}

		if len(args) == 0 {
			return runInteractiveSearch(cmd, appInstance, filters, order)
		}

		query := util.CleanQuery(strings.Join(args, " "))
		ctx := cmd.Context()

		names, err := appInstance.CatalogStore.ProductNames(ctx, appInstance.Config.Interpreter.CatalogLimit)
		if err != nil {
			log.Warnf("Failed to load product names for interpretation: %v", err)
		}
		interp := appInstance.Interpreter.Interpret(ctx, query, names)
		printInterpretation(interp)

		products, err := appInstance.CatalogStore.ListProducts(ctx, searchLimit, 0)
		if err != nil {
			return fmt.Errorf("failed to list products: %w", err)
		}

		results := search.Apply(products, interp.Keywords, filters)
		search.Sort(results, order)

		if err := appInstance.JobClient.EnqueueSearchRecord(ctx, query, len(results), interp.Confidence); err != nil {
			log.Warnf("Failed to enqueue search record: %v", err)
		}

		renderProducts(results)
		return nil
	},
}

// runInteractiveSearch reads queries line by line and reuses one session, so
// repeated queries hit the session cache instead of the AI backend.
func runInteractiveSearch(cmd *cobra.Command, appInstance *app.App, filters search.Filters, order search.SortOrder) error {
	ctx := cmd.Context()

	products, err := appInstance.CatalogStore.ListProducts(ctx, searchLimit, 0)
	if err != nil {
		return fmt.Errorf("failed to list products: %w", err)
	}

	done := make(chan struct{}, 1)
	session, err := appInstance.NewSearchSession(ctx, func(interp models.Interpretation) {
		results := search.Apply(products, interp.Keywords, filters)
		search.Sort(results, order)
		printInterpretation(interp)
		renderProducts(results)
		done <- struct{}{}
	})
	if err != nil {
		return fmt.Errorf("failed to start search session: %w", err)
	}
	defer session.Close()

	fmt.Println("Type a query and press enter (ctrl-d to quit).")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		session.Submit(util.CleanQuery(scanner.Text()))
		if session.State().Processing {
			<-done
			continue
		}
		select {
		case <-done:
			// Cache hit: the callback already rendered synchronously.
		default:
			// Short or unavailable-AI queries resolve without a callback;
			// render from the snapshot.
			state := session.State()
			results := search.Apply(products, search.EffectiveKeywords(state), filters)
			search.Sort(results, order)
			renderProducts(results)
		}
	}
	return scanner.Err()
}

func searchFiltersFromFlags(cmd *cobra.Command) (search.Filters, search.SortOrder, error) {
	filters := search.Filters{
		Category:  searchCategory,
		Condition: searchCondition,
	}

	min, max, err := clix.ParsePriceRange(cmd.Flags())
	if err != nil {
		return filters, "", err
	}
	filters.PriceMin = min
	filters.PriceMax = max

	order, err := clix.ParseSortOrder(cmd.Flags())
	if err != nil {
		return filters, "", err
	}
	return filters, order, nil
}

func printInterpretation(interp models.Interpretation) {
	if !interp.FromAI() {
		fmt.Println(color.YellowString("AI interpretation unavailable, matching the raw query."))
		return
	}
	category := "none"
	if interp.Category != nil {
		category = *interp.Category
	}
	fmt.Printf("%s keywords=%v category=%s confidence=%.2f\n",
		color.GreenString("Interpreted:"), interp.Keywords, category, interp.Confidence)
}

func renderProducts(products []models.Product) {
	if len(products) == 0 {
		fmt.Println("No results found.")
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Name", "Category", "Condition", "Price", "Views"})
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, p := range products {
		table.Append([]string{
			strconv.FormatInt(p.ID, 10),
			p.Name,
			p.Category,
			p.Condition,
			fmt.Sprintf("%.2f", float64(p.PriceCents)/100),
			strconv.FormatInt(p.ViewCount, 10),
		})
	}
	table.Render()
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntVarP(&searchLimit, "limit", "l", 100, "Maximum number of catalog rows to search")
	searchCmd.Flags().StringVar(&searchCategory, "category", "", "Only show products in this category")
	searchCmd.Flags().StringVar(&searchCondition, "condition", "", "Only show products in this condition (e.g. new, used)")
	searchCmd.Flags().Int64Var(&searchPriceMin, "price-min", 0, "Minimum price in cents")
	searchCmd.Flags().Int64Var(&searchPriceMax, "price-max", 0, "Maximum price in cents")
	searchCmd.Flags().StringVar(&searchSort, "sort", string(search.SortNewest), "Sort order: newest, oldest or most_viewed")
}
