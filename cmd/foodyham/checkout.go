package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/foodyham/internal/domain/order"
)

func (c *cli) checkoutCmd() *cobra.Command {
	var paymentMethod string
	var quote bool

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order for the cart",
		Long: `Place an order for everything in the cart.

The total is the cart subtotal plus a flat $5.00 delivery fee and 8%
sales tax. The order ships to the address on your profile. Use --quote
to see the breakdown without ordering.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if quote {
				printTotals(c, c.app.Checkout.Quote())
				return nil
			}

			receipt, err := c.app.Checkout.Checkout(cmd.Context(), paymentMethod)
			if errors.Is(err, order.ErrSessionExpired) {
				return fmt.Errorf("%s Run `foodyham login` to continue", order.SessionExpiredMessage)
			}
			if err != nil {
				return err
			}

			c.success("Order %s placed (%s)", receipt.Order.ID, receipt.Order.Status)
			printTotals(c, receipt.Totals)
			if addr := strings.TrimSpace(receipt.Order.ShippingAddress); addr != "" {
				c.printf("Delivering to: %s\n", addr)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&paymentMethod, "payment", order.DefaultPaymentMethod, "Payment method")
	cmd.Flags().BoolVar(&quote, "quote", false, "Only show the price breakdown")
	return cmd
}

func printTotals(c *cli, t order.Totals) {
	c.printf("Subtotal:     $%.2f\n", t.Subtotal)
	c.printf("Delivery fee: $%.2f\n", t.DeliveryFee)
	c.printf("Tax (8%%):     $%.2f\n", t.Tax)
	c.printf("Total:        $%.2f\n", t.Total)
}
