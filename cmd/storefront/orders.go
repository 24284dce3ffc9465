package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newOrdersCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "orders [id]",
		Short: "Show order history, or one order by id",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if len(args) == 1 {
				orderID, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid order id %q", args[0])
				}
				order, err := (*a).orders.Order(ctx, orderID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "#%d\t%s\t%s\t%s\n",
					order.OrderID, order.Status, order.PaymentMethod, order.TotalAmount.StringFixed(2))
				return nil
			}

			history, err := (*a).orders.History(ctx)
			if err != nil {
				return err
			}
			if len(history) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No orders yet")
				return nil
			}
			for _, order := range history {
				fmt.Fprintf(cmd.OutOrStdout(), "#%d\t%s\t%s\n",
					order.OrderID, order.Status, order.TotalAmount.StringFixed(2))
			}
			return nil
		},
	}
}
