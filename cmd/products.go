package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"vitrine/internal/clix"
	"vitrine/internal/store"
)

var (
	productsLimit  int
	productsOffset int
)

// productsCmd represents the base command for catalog operations
var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Browse the product catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listProductsCmd.RunE(cmd, args)
	},
}

var listProductsCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog products, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		pagination, err := clix.ParsePagination(cmd.Flags())
		if err != nil {
			return err
		}

		products, err := appInstance.CatalogStore.ListProducts(cmd.Context(), pagination.Limit, pagination.Offset)
		if err != nil {
			return fmt.Errorf("error listing products: %w", err)
		}
		renderProducts(products)
		return nil
	},
}

var showProductCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a single product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid product ID: %s", args[0])
		}

		product, err := appInstance.CatalogStore.GetProduct(cmd.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("no product with ID %d", id)
			}
			return fmt.Errorf("error fetching product %d: %w", id, err)
		}

		fmt.Printf("ID:        %d\n", product.ID)
		fmt.Printf("Name:      %s\n", product.Name)
		if product.Description != nil {
			fmt.Printf("Desc:      %s\n", *product.Description)
		}
		fmt.Printf("Category:  %s\n", product.Category)
		fmt.Printf("Condition: %s\n", product.Condition)
		fmt.Printf("Price:     %.2f\n", float64(product.PriceCents)/100)
		fmt.Printf("Views:     %d\n", product.ViewCount)
		fmt.Printf("Tags:      %v\n", product.Tags)
		return nil
	},
}

func init() {
	listProductsCmd.Flags().IntVarP(&productsLimit, "limit", "l", 100, "Maximum number of products to show")
	listProductsCmd.Flags().IntVar(&productsOffset, "offset", 0, "Offset into the catalog")

	productsCmd.AddCommand(listProductsCmd)
	productsCmd.AddCommand(showProductCmd)
	rootCmd.AddCommand(productsCmd)
}
