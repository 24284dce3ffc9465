package main

import (
	"fmt"
	"strconv"

	"github.com/freshkart/storefront-go/pkg/api"
	"github.com/spf13/cobra"
)

func newCategoriesCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List catalog categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			categories, err := (*a).catalog.Categories(cmd.Context())
			if err != nil {
				return err
			}
			for _, category := range categories {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", category.ID, category.Name)
			}
			return nil
		},
	}
}

func newProductsCmd(a **app) *cobra.Command {
	var categoryID int64

	cmd := &cobra.Command{
		Use:   "products [id]",
		Short: "List products, or show one by id",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if len(args) == 1 {
				id, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid product id %q", args[0])
				}
				product, err := (*a).catalog.Product(ctx, id)
				if err != nil {
					return err
				}
				stock := "in stock"
				if !product.InStock {
					stock = "out of stock"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%s\n", product.ID, product.Name, product.Price.StringFixed(2), stock)
				return nil
			}

			var list []api.Product
			var err error
			if categoryID > 0 {
				list, err = (*a).catalog.ProductsByCategory(ctx, categoryID)
			} else {
				list, err = (*a).catalog.Products(ctx)
			}
			if err != nil {
				return err
			}
			for _, product := range list {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", product.ID, product.Name, product.Price.StringFixed(2))
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&categoryID, "category", 0, "filter by category id")
	return cmd
}
