package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/polkiloo/fulfillsync/internal/pkg/orderid"
)

func resolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve [composite-id...]",
		Short: "Print the merchant order id of gateway composite ids",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			var failed int
			for _, id := range args {
				base, err := orderid.Resolve(id)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s\t%v\n", id, err)
					failed++
					continue
				}
				fmt.Fprintf(out, "%s\t%s\n", id, base)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d ids could not be resolved", failed, len(args))
			}
			return nil
		},
	}
}

func composeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compose [order-id] [attempt]",
		Short: "Build the composite id used when creating a payment attempt",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			composite := orderid.Compose(args[0], args[1])
			base, err := orderid.Resolve(composite)
			if err != nil {
				return err
			}
			if base != args[0] {
				return fmt.Errorf("order id %q must not contain %q", args[0], orderid.Separator)
			}
			fmt.Fprintln(cmd.OutOrStdout(), composite)
			return nil
		},
	}
}
