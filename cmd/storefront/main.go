package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// Missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var application *app

	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Command-line storefront for the FreshKart grocery API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			built, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			application = built
			cmd.SetContext(built.logg.WithField(cmd.Context(), "command", cmd.Name()))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if application == nil {
				return nil
			}
			return application.close()
		},
	}

	root.AddCommand(
		newLoginCmd(&application),
		newRegisterCmd(&application),
		newLogoutCmd(&application),
		newPasswordCmd(&application),
		newProfileCmd(&application),
		newCategoriesCmd(&application),
		newProductsCmd(&application),
		newCartCmd(&application),
		newCheckoutCmd(&application),
		newOrdersCmd(&application),
		newAddressCmd(&application),
	)
	return root
}
