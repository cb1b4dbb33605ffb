package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marcelsud/session-bridge/event"
	"github.com/marcelsud/session-bridge/subscription"
)

func webhooksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webhooks",
		Short: "Work with a webhooks.yaml subscriptions file",
	}
	cmd.AddCommand(validateCmd(), matchCmd())
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a subscriptions file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := "webhooks.yaml"
			if len(args) > 0 {
				file = args[0]
			}

			fmt.Printf("Validating subscriptions file: %s\n", file)
			fmt.Println(strings.Repeat("-", 50))

			subs, err := subscription.LoadFile(file)
			if err != nil {
				fmt.Fprintf(os.Stderr, "❌ VALIDATION FAILED\n\n")
				return err
			}

			fmt.Printf("✓ VALIDATION PASSED\n\n")
			fmt.Printf("Loaded %d webhook(s):\n", len(subs))
			for i, s := range subs {
				printSubscription(i+1, s)
			}
			return nil
		},
	}
}

func matchCmd() *cobra.Command {
	var (
		file      string
		sessionID int
		eventType string
	)
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Show which webhooks an event would be delivered to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t := event.Type(eventType)
			if err := t.Validate(); err != nil {
				return err
			}
			if !t.IsKnown() {
				fmt.Fprintf(os.Stderr, "warning: %s is never emitted by the bridge\n", t)
			}

			subs, err := subscription.LoadFile(file)
			if err != nil {
				return err
			}
			matched := subscription.Match(subs, sessionID, t)
			if len(matched) == 0 {
				fmt.Printf("No webhook receives %s events of session %d\n", t, sessionID)
				return nil
			}
			fmt.Printf("%d webhook(s) receive %s events of session %d:\n", len(matched), t, sessionID)
			for i, s := range matched {
				printSubscription(i+1, s)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "webhooks.yaml", "subscriptions file")
	cmd.Flags().IntVar(&sessionID, "session", 0, "session id")
	cmd.Flags().StringVar(&eventType, "event", "", "event type, e.g. message")
	cmd.MarkFlagRequired("session")
	cmd.MarkFlagRequired("event")
	return cmd
}

func printSubscription(n int, s subscription.Subscription) {
	fmt.Printf("\n%d. Webhook: %d %s\n", n, s.ID, s.Name)
	fmt.Printf("   Session:  %d\n", s.SessionID)
	fmt.Printf("   URL:      %s\n", s.URL)
	fmt.Printf("   Active:   %t\n", s.Active)

	types := make([]string, len(s.EventTypes))
	for i, t := range s.EventTypes {
		types[i] = t.String()
	}
	fmt.Printf("   Events:   %s\n", strings.Join(types, ", "))
	if s.Options.IncludeRequestHeaders {
		fmt.Printf("   Request headers: included\n")
	}
	if len(s.Headers) > 0 {
		fmt.Printf("   Headers:  %d custom\n", len(s.Headers))
	}
}
