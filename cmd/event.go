package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/frahmantamala/user-management/internal/core/events"
	"github.com/frahmantamala/user-management/pkg/logger"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Manage events: publish test events and inspect the user event types`,
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [event-type]",
	Short: "Publish a test user event",
	Long:  `Publish a user event to a local event bus with the audit handler attached, for debugging subscribers`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishTestEvent(cmd.Context(), args[0])
	},
}

var listEventTypesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the user event types",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(strings.Join(events.UserEventTypes, "\n"))
	},
}

var (
	eventUserID int64
	eventEmail  string
)

func publishTestEvent(ctx context.Context, eventType string) error {
	lg := logger.LoggerWrapper()

	eventBus := events.NewEventBus(lg)
	eventBus.Subscribe(eventType, events.AuditLogHandler(lg))

	testEvent := events.NewUserEvent(eventType, eventUserID, eventEmail, nil)
	testEvent.Data["source"] = "cli-command"

	lg.Info("publishing test event", "event_type", eventType, "event_id", testEvent.ID)

	if err := eventBus.PublishSync(ctx, testEvent); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	lg.Info("test event published successfully")
	return nil
}

func init() {
	publishEventCmd.Flags().Int64Var(&eventUserID, "user-id", 0, "user id carried by the event")
	publishEventCmd.Flags().StringVar(&eventEmail, "email", "", "email carried by the event")

	eventCmd.AddCommand(publishEventCmd)
	eventCmd.AddCommand(listEventTypesCmd)

	rootCmd.AddCommand(eventCmd)
}
