package main

import (
	"fmt"

	"github.com/freshkart/storefront-go/internal/checkout"
	"github.com/freshkart/storefront-go/pkg/enums"
	"github.com/spf13/cobra"
)

func newCheckoutCmd(a **app) *cobra.Command {
	var shipping checkout.ShippingDetails
	var payment string

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order from the current cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if err := (*a).cart.Reload(ctx); err != nil {
				return err
			}

			flow, err := checkout.New((*a).client, (*a).cart, (*a).session, (*a).policy, (*a).logg)
			if err != nil {
				return err
			}

			totals := flow.Totals()
			fmt.Fprintf(cmd.OutOrStdout(), "Subtotal: %s\n", totals.Subtotal.StringFixed(2))
			fmt.Fprintf(cmd.OutOrStdout(), "Shipping: %s\n", totals.ShippingCost.StringFixed(2))
			fmt.Fprintf(cmd.OutOrStdout(), "Total:    %s\n", totals.GrandTotal.StringFixed(2))

			if err := flow.Advance(); err != nil {
				return err
			}

			flow.SetShipping(shipping)
			if err := flow.Advance(); err != nil {
				return err
			}

			method, err := enums.ParsePaymentMethod(payment)
			if err != nil {
				return err
			}
			if err := flow.SetPaymentMethod(method); err != nil {
				return err
			}

			if err := flow.SubmitOrder(ctx); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Order #%d placed\n", flow.OrderID())
			return nil
		},
	}

	cmd.Flags().StringVar(&shipping.FullName, "name", "", "recipient full name")
	cmd.Flags().StringVar(&shipping.Phone, "phone", "", "contact phone")
	cmd.Flags().StringVar(&shipping.AddressLine, "address", "", "street address")
	cmd.Flags().StringVar(&shipping.City, "city", "", "city")
	cmd.Flags().StringVar(&shipping.State, "state", "", "state")
	cmd.Flags().StringVar(&shipping.PostalCode, "postal", "", "postal code")
	cmd.Flags().StringVar(&payment, "payment", "cod", "payment method (card, upi, netbanking, cod)")
	return cmd
}
