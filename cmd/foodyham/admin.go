package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/foodyham/internal/apperror"
	"github.com/example/foodyham/internal/domain/ident"
	"github.com/example/foodyham/internal/domain/money"
	"github.com/example/foodyham/internal/domain/product"
)

var errAdminOnly = apperror.Authorization("Admin access required")

func (c *cli) adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Catalog administration and sales analytics (admins only)",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.setup(cmd.Context()); err != nil {
				return err
			}
			if !c.app.Session.IsAdmin() {
				return errAdminOnly
			}
			return nil
		},
	}

	products := &cobra.Command{
		Use:   "products",
		Short: "Create, edit, feature and delete menu items",
	}
	products.AddCommand(
		c.adminCreateProductCmd(),
		c.adminUpdateProductCmd(),
		c.adminDeleteProductCmd(),
		c.adminFeatureProductCmd(),
	)

	cmd.AddCommand(products, c.adminAnalyticsCmd())
	return cmd
}

func (c *cli) adminCreateProductCmd() *cobra.Command {
	var p product.Product
	var price float64

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a menu item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p.Price = money.Amount(price)
			created, err := c.app.Client.CreateProduct(cmd.Context(), p)
			if err != nil {
				return err
			}
			if p.IsFeatured {
				if err := c.app.Client.SetFeatured(cmd.Context(), created.ID, true); err != nil {
					return err
				}
				created.IsFeatured = true
			}
			c.success("Created %s", created.ID)
			printProduct(c, created)
			return nil
		},
	}

	cmd.Flags().StringVar(&p.Name, "name", "", "Item name")
	cmd.Flags().Float64Var(&price, "price", 0, "Price in dollars")
	cmd.Flags().StringVar(&p.Description, "description", "", "Short description")
	cmd.Flags().StringVar(&p.FullDescription, "full-description", "", "Long description")
	cmd.Flags().StringVar(&p.Category, "category", "", "Menu category")
	cmd.Flags().StringVar(&p.Image, "image", "", "Image URL")
	cmd.Flags().StringSliceVar(&p.Ingredients, "ingredients", nil, "Comma-separated ingredients")
	cmd.Flags().BoolVar(&p.IsFeatured, "featured", false, "Feature on the home page")
	return cmd
}

func (c *cli) adminUpdateProductCmd() *cobra.Command {
	var name, description, category, image string
	var price float64

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a menu item; only the given flags change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch product.Patch
			flags := cmd.Flags()
			if flags.Changed("name") {
				patch.Name = &name
			}
			if flags.Changed("description") {
				patch.Description = &description
			}
			if flags.Changed("category") {
				patch.Category = &category
			}
			if flags.Changed("image") {
				patch.Image = &image
			}
			if flags.Changed("price") {
				amount := money.Amount(price)
				patch.Price = &amount
			}

			updated, err := c.app.Client.UpdateProduct(cmd.Context(), ident.ID(args[0]), patch)
			if err != nil {
				return err
			}
			c.success("Updated %s", updated.ID)
			printProduct(c, updated)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Item name")
	cmd.Flags().Float64Var(&price, "price", 0, "Price in dollars")
	cmd.Flags().StringVar(&description, "description", "", "Short description")
	cmd.Flags().StringVar(&category, "category", "", "Menu category")
	cmd.Flags().StringVar(&image, "image", "", "Image URL")
	return cmd
}

func (c *cli) adminDeleteProductCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a menu item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Client.DeleteProduct(cmd.Context(), ident.ID(args[0])); err != nil {
				return err
			}
			c.success("Deleted %s", args[0])
			return nil
		},
	}
}

func (c *cli) adminFeatureProductCmd() *cobra.Command {
	var off bool

	cmd := &cobra.Command{
		Use:   "feature <id>",
		Short: "Feature a menu item on the home page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Client.SetFeatured(cmd.Context(), ident.ID(args[0]), !off); err != nil {
				return err
			}
			if off {
				c.success("%s is no longer featured", args[0])
			} else {
				c.success("%s is now featured", args[0])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&off, "off", false, "Remove the item from the featured list")
	return cmd
}

func (c *cli) adminAnalyticsCmd() *cobra.Command {
	var period int

	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Sales report for the last 7, 30 or 90 days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch period {
			case 7, 30, 90:
			default:
				return apperror.Validation("Period must be 7, 30 or 90 days")
			}

			report, err := c.app.Client.SalesAnalytics(cmd.Context(), period)
			if err != nil {
				return err
			}

			c.printf("Sales, last %d days\n\n", period)
			c.printf("Total sales:         $%.2f\n", report.TotalSales)
			c.printf("Orders:              %d\n", report.TotalOrders)
			c.printf("Average order value: $%.2f\n", report.AverageOrderValue())
			c.printf("New customers:       %d\n", report.NewUsers)

			if len(report.TopProducts) > 0 {
				c.printf("\nTop products\n")
				w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "NAME\tSOLD\tREVENUE\t")
				for _, p := range report.TopProducts {
					fmt.Fprintf(w, "%s\t%d\t$%.2f\t\n", p.Name, p.TotalSold, p.Revenue)
				}
				if err := w.Flush(); err != nil {
					return err
				}
			}
			if len(report.PaymentMethods) > 0 {
				c.printf("\nPayment methods\n")
				for _, m := range report.PaymentMethods {
					c.printf("  %-14s %d\n", m.Method, m.Count)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&period, "period", 30, "Report period in days (7, 30 or 90)")
	return cmd
}
