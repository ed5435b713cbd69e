package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/Lixing-Zhang/restaurant-pos/internal/models"
	"github.com/Lixing-Zhang/restaurant-pos/internal/service"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type productFlags struct {
	name     string
	price    string
	category string
	quantity int
}

func (f *productFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "product name")
	cmd.Flags().StringVar(&f.price, "price", "", "unit price, e.g. 29.90")
	cmd.Flags().StringVar(&f.category, "category", "", "tradicional|acompanhamento|especial|doce|bebida")
	cmd.Flags().IntVar(&f.quantity, "quantity", 0, "stock quantity")
}

// apply copies the flags the user set onto p
func (f *productFlags) apply(cmd *cobra.Command, p *models.Product) error {
	if cmd.Flags().Changed("name") {
		p.Name = f.name
	}
	if cmd.Flags().Changed("price") {
		price, err := decimal.NewFromString(f.price)
		if err != nil {
			return fmt.Errorf("invalid price %q: %w", f.price, err)
		}
		p.Price = price
	}
	if cmd.Flags().Changed("category") {
		category, err := models.ParseCategory(f.category)
		if err != nil {
			return err
		}
		p.Category = category
	}
	if cmd.Flags().Changed("quantity") {
		p.Quantity = f.quantity
	}
	return nil
}

// NewProductCommand creates the product command.
func NewProductCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Manage the catalog",
	}

	addFlags := &productFlags{}
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), rootOpts, cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			p := models.Product{}
			if err := addFlags.apply(cmd, &p); err != nil {
				return err
			}
			if err := service.NewProductService(a.store, a.log).CreateProduct(cmd.Context(), &p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created product %d\n", p.ID)
			return nil
		},
	}
	addFlags.register(add)
	for _, name := range []string{"name", "price", "category"} {
		_ = add.MarkFlagRequired(name)
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List products by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), rootOpts, cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			groups, err := service.NewProductService(a.store, a.log).ListByCategory(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tPRICE\tQTY\tCATEGORY")
			for _, g := range groups {
				for _, p := range g.Products {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", p.ID, p.Name, p.Price.StringFixed(2), p.Quantity, g.Label)
				}
			}
			return tw.Flush()
		},
	}

	updateFlags := &productFlags{}
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a product; saved orders keep their prices",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), rootOpts, cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			products := service.NewProductService(a.store, a.log)
			p, err := products.GetProduct(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("product %d: %w", id, err)
			}
			if err := updateFlags.apply(cmd, p); err != nil {
				return err
			}
			if err := products.UpdateProduct(cmd.Context(), p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated product %d\n", p.ID)
			return nil
		},
	}
	updateFlags.register(update)

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product; order history keeps its snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), rootOpts, cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := service.NewProductService(a.store, a.log).DeleteProduct(cmd.Context(), id); err != nil {
				return fmt.Errorf("product %d: %w", id, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted product %d\n", id)
			return nil
		},
	}

	cmd.AddCommand(add, list, update, del)
	return cmd
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: must be a positive integer", s)
	}
	return id, nil
}
