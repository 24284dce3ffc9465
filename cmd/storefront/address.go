package main

import (
	"fmt"
	"strconv"

	"github.com/freshkart/storefront-go/internal/address"
	"github.com/spf13/cobra"
)

func newAddressCmd(a **app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "address",
		Short: "Manage saved addresses",
	}
	cmd.AddCommand(
		newAddressListCmd(a),
		newAddressAddCmd(a),
		newAddressRemoveCmd(a),
	)
	return cmd
}

func newAddressListCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved addresses",
		RunE: func(cmd *cobra.Command, args []string) error {
			saved, err := (*a).addresses.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, addr := range saved {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s, %s, %s %s\n",
					addr.ID, addr.AddressLine, addr.City, addr.State, addr.PostalCode)
			}
			return nil
		},
	}
}

func newAddressAddCmd(a **app) *cobra.Command {
	var input address.Input

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Save a new address",
		RunE: func(cmd *cobra.Command, args []string) error {
			saved, err := (*a).addresses.Create(cmd.Context(), input)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved address %d\n", saved.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&input.FullName, "name", "", "recipient full name")
	cmd.Flags().StringVar(&input.Phone, "phone", "", "contact phone")
	cmd.Flags().StringVar(&input.AddressLine, "address", "", "street address")
	cmd.Flags().StringVar(&input.City, "city", "", "city")
	cmd.Flags().StringVar(&input.State, "state", "", "state")
	cmd.Flags().StringVar(&input.PostalCode, "postal", "", "postal code")
	return cmd
}

func newAddressRemoveCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <address-id>",
		Short: "Delete a saved address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid address id %q", args[0])
			}
			return (*a).addresses.Delete(cmd.Context(), id)
		},
	}
}
