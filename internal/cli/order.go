package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Lixing-Zhang/restaurant-pos/internal/models"
	"github.com/Lixing-Zhang/restaurant-pos/internal/service"
	"github.com/spf13/cobra"
)

// NewOrderCommand creates the order command.
func NewOrderCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Inspect and remove orders",
	}

	var orderID int64
	show := &cobra.Command{
		Use:   "show [table_number]",
		Short: "Print the order history of a table, or one order with --id, as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			byID := cmd.Flags().Changed("id")
			if byID == (len(args) == 1) {
				return fmt.Errorf("pass either a table number or --id")
			}

			table := 0
			if !byID {
				var err error
				if table, err = strconv.Atoi(args[0]); err != nil {
					return fmt.Errorf("invalid table number %q", args[0])
				}
			} else if orderID <= 0 {
				return fmt.Errorf("invalid id %d: must be a positive integer", orderID)
			}

			a, err := newApp(cmd.Context(), rootOpts, cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			orders := service.NewOrderService(a.store, a.log)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")

			if byID {
				order, err := orders.GetOrder(cmd.Context(), orderID)
				if err != nil {
					return fmt.Errorf("order %d: %w", orderID, err)
				}
				return enc.Encode(models.NewOrderView(*order))
			}

			history, err := orders.History(cmd.Context(), table)
			if err != nil {
				return err
			}

			resp := models.OrderHistoryResponse{Orders: make([]models.OrderView, 0, len(history))}
			for _, o := range history {
				resp.Orders = append(resp.Orders, models.NewOrderView(o))
			}
			return enc.Encode(resp)
		},
	}
	show.Flags().Int64Var(&orderID, "id", 0, "order id")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an order with its items and accompaniments",
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

			if err := service.NewOrderService(a.store, a.log).DeleteOrder(cmd.Context(), id); err != nil {
				return fmt.Errorf("order %d: %w", id, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted order %d\n", id)
			return nil
		},
	}

	cmd.AddCommand(show, del)
	return cmd
}
