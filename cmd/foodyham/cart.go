package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/foodyham/internal/domain/ident"
	"github.com/example/foodyham/internal/domain/money"
)

func (c *cli) cartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage the shopping cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.printCart()
		},
	}
	cmd.AddCommand(
		c.cartAddCmd(),
		c.cartRemoveCmd(),
		c.cartSetCmd(),
		c.cartListCmd(),
		c.cartClearCmd(),
	)
	return cmd
}

func (c *cli) cartAddCmd() *cobra.Command {
	var quantity int

	cmd := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add a menu item to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.app.Client.GetProduct(cmd.Context(), ident.ID(args[0]))
			if err != nil {
				return err
			}
			if err := c.app.Cart.AddItem(cmd.Context(), p, quantity); err != nil {
				return err
			}
			c.success("Added %d × %s (%d item(s) in cart)", quantity, p.Name, c.app.Cart.Count())
			return nil
		},
	}

	cmd.Flags().IntVarP(&quantity, "quantity", "q", 1, "How many to add")
	return cmd
}

func (c *cli) cartRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <product-id>",
		Aliases: []string{"rm"},
		Short:   "Remove a line from the cart",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.app.Cart.RemoveItem(cmd.Context(), ident.ID(args[0]))
			return c.printCart()
		},
	}
}

func (c *cli) cartSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <product-id> <quantity>",
		Short: "Set a line's quantity; below 1 removes it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("quantity must be a whole number: %q", args[1])
			}
			c.app.Cart.SetQuantity(cmd.Context(), ident.ID(args[0]), quantity)
			return c.printCart()
		},
	}
}

func (c *cli) cartListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show the cart",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.printCart()
		},
	}
}

func (c *cli) cartClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.app.Cart.Clear(cmd.Context())
			c.success("Cart cleared")
			return nil
		},
	}
}

func (c *cli) printCart() error {
	items := c.app.Cart.Items()
	if len(items) == 0 {
		c.printf("Your cart is empty\n")
		return nil
	}

	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tITEM\tQTY\tPRICE\tSUBTOTAL\t")
	for _, li := range items {
		fmt.Fprintf(w, "%s\t%s\t%d\t$%s\t$%.2f\t\n", li.ProductID, li.Name, li.Quantity, li.UnitPrice, money.Round2(li.Subtotal()))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	c.printf("\n%d item(s), total $%.2f\n", c.app.Cart.Count(), c.app.Cart.Total())
	return nil
}
