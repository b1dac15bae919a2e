package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/foodyham/internal/event"
	"github.com/example/foodyham/internal/infrastructure/kafka"
	"github.com/example/foodyham/internal/projection"
)

func (c *cli) eventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect the storefront activity stream",
	}
	cmd.AddCommand(c.eventsTailCmd())
	return cmd
}

func (c *cli) eventsTailCmd() *cobra.Command {
	var group string

	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Follow storefront events from Kafka until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.app.Config
			if !cfg.KafkaEnabled() {
				return fmt.Errorf("KAFKA_BROKERS is not set")
			}
			if group == "" {
				group = "foodyham-tail-" + cfg.Profile
			}

			consumer := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, group)
			defer consumer.Close()
			projector := projection.NewProjector()

			c.printf("Following %s (group %s), Ctrl-C to stop\n", cfg.KafkaTopic, group)
			err := consumer.Consume(cmd.Context(), func(ctx context.Context, e event.Event) error {
				c.printf("%s  %-26s %-8s %s\n", e.Timestamp.Format("15:04:05"), e.EventType, e.AggregateType, e.AggregateID)
				return projector.HandleEvent(ctx, e)
			})
			printSummary(c, projector.Summary())
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&group, "group", "", "Kafka consumer group (default foodyham-tail-<profile>)")
	return cmd
}

func printSummary(c *cli, s projection.Summary) {
	c.printf("\n%d event(s)\n", s.Events)
	c.printf("Orders placed:     %d ($%.2f)\n", s.OrdersPlaced, s.Revenue)
	c.printf("Checkout failures: %d\n", s.CheckoutFailures)
	c.printf("Items added:       %d\n", s.ItemsAdded)
	c.printf("Logins:            %d, registrations %d, logouts %d\n", s.Logins, s.Registrations, s.Logouts)
	c.printf("Recovered state:   %d\n", s.Recoveries)
	c.printf("Catalog changes:   %d\n", s.CatalogChanges)
	for _, tc := range s.Top(5) {
		c.printf("  %-26s %d\n", tc.EventType, tc.Count)
	}
}
