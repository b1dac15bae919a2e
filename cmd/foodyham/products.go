package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/foodyham/internal/domain/ident"
	"github.com/example/foodyham/internal/domain/product"
)

func (c *cli) productsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"menu"},
		Short:   "Browse the menu",
	}
	cmd.AddCommand(c.productsListCmd(), c.productsShowCmd())
	return cmd
}

func (c *cli) productsListCmd() *cobra.Command {
	var q product.Query

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List menu items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := c.app.Client.ListProducts(cmd.Context(), q)
			if err != nil {
				return err
			}
			if len(products) == 0 {
				c.printf("No products found\n")
				return nil
			}

			w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE\t")
			for _, p := range products {
				name := p.Name
				if p.IsFeatured {
					name += " ★"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t$%s\t\n", p.ID, name, p.Category, p.Price)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&q.Category, "category", "", "Only this category")
	cmd.Flags().StringVar(&q.Search, "search", "", "Search name and description")
	cmd.Flags().StringVar(&q.Sort, "sort", "", "Sort by price, -price, name or featured")
	cmd.Flags().IntVar(&q.Limit, "limit", 0, "Show at most this many items")
	return cmd
}

func (c *cli) productsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one menu item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.app.Client.GetProduct(cmd.Context(), ident.ID(args[0]))
			if err != nil {
				return err
			}
			printProduct(c, p)
			return nil
		},
	}
}

func printProduct(c *cli, p product.Product) {
	c.printf("%s  ($%s)\n", p.Name, p.Price)
	c.printf("ID:       %s\n", p.ID)
	if p.Category != "" {
		c.printf("Category: %s\n", p.Category)
	}
	if p.IsFeatured {
		c.printf("Featured: yes\n")
	}
	if desc := p.FullDescription; desc != "" {
		c.printf("\n%s\n", desc)
	} else if p.Description != "" {
		c.printf("\n%s\n", p.Description)
	}
	if len(p.Ingredients) > 0 {
		c.printf("\nIngredients: %s\n", strings.Join(p.Ingredients, ", "))
	}
	if n := p.NutritionalInfo; n != nil {
		c.printf("Nutrition:   %d kcal, protein %s, carbs %s, fat %s\n", n.Calories, n.Protein, n.Carbs, n.Fat)
	}
}
