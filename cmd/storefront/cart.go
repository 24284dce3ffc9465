package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newCartCmd(a **app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Inspect and mutate the server cart",
	}
	cmd.AddCommand(
		newCartShowCmd(a),
		newCartAddCmd(a),
		newCartQtyCmd(a),
		newCartRemoveCmd(a),
		newCartClearCmd(a),
	)
	return cmd
}

func newCartShowCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := (*a).cart.Reload(cmd.Context()); err != nil {
				return err
			}
			lines := (*a).cart.Lines()
			if len(lines) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Cart is empty")
				return nil
			}
			for _, line := range lines {
				name := fmt.Sprintf("product %d", line.ProductID)
				price := ""
				if line.Product != nil {
					name = line.Product.Name
					price = line.Product.Price.StringFixed(2)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\tx%d\t%s\n", line.CartID, name, line.Quantity, price)
			}
			return nil
		},
	}
}

func newCartAddCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add one unit of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			productID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid product id %q", args[0])
			}
			product, err := (*a).catalog.Product(ctx, productID)
			if err != nil {
				return err
			}
			if err := (*a).cart.AddItem(ctx, *product); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", product.Name)
			return nil
		},
	}
}

func newCartQtyCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "qty <line-id> <quantity>",
		Short: "Set the quantity of a cart line",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lineID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid line id %q", args[0])
			}
			quantity, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}
			if err := (*a).cart.Reload(cmd.Context()); err != nil {
				return err
			}
			return (*a).cart.UpdateQuantity(cmd.Context(), lineID, quantity)
		},
	}
}

func newCartRemoveCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <line-id>",
		Short: "Remove a cart line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lineID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid line id %q", args[0])
			}
			if err := (*a).cart.Reload(cmd.Context()); err != nil {
				return err
			}
			return (*a).cart.RemoveItem(cmd.Context(), lineID)
		},
	}
}

func newCartClearCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cart line",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := (*a).cart.Reload(cmd.Context()); err != nil {
				return err
			}
			if err := (*a).cart.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cart cleared")
			return nil
		},
	}
}
