package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/marcelsud/session-bridge/config"
	"github.com/marcelsud/session-bridge/metrics"
	sessionredis "github.com/marcelsud/session-bridge/session/redis"
)

func sessionsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List running sessions from their Redis heartbeats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.GetConfig(configFile)
			if err != nil {
				return err
			}
			mirror, err := sessionredis.NewMirror(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.HeartbeatTTL)
			if err != nil {
				return err
			}
			defer mirror.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			m, err := metrics.NewRedisCollector(mirror).Collect(ctx)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(m)
			}
			printSessions(m)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw metrics document")
	return cmd
}

func printSessions(m metrics.Metrics) {
	if len(m.Sessions) == 0 {
		fmt.Println("No running sessions")
		return
	}
	sort.Slice(m.Sessions, func(i, j int) bool { return m.Sessions[i].SessionID < m.Sessions[j].SessionID })

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SESSION\tSTATUS\tHOST\tLAST HEARTBEAT")
	for _, s := range m.Sessions {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", s.SessionID, s.Status, s.Host, s.LastHeartbeat.Format(time.RFC3339))
	}
	w.Flush()

	statuses := make([]string, 0, len(m.StatusCounts))
	for s := range m.StatusCounts {
		statuses = append(statuses, s)
	}
	sort.Strings(statuses)
	fmt.Println()
	for _, s := range statuses {
		fmt.Printf("%-16s %d\n", s+":", m.StatusCounts[s])
	}
}
