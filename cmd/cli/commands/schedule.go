package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/clipforge/clipforge/internal/types"
)

// GetScheduleCmd returns the schedule command
func GetScheduleCmd() *cobra.Command {
	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Schedule clips for publishing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sourceID, _ := cmd.Flags().GetString("source")
			startStr, _ := cmd.Flags().GetString("start")
			intervalHours, _ := cmd.Flags().GetFloat64("interval-hours")
			destinations, _ := cmd.Flags().GetStringSlice("destinations")

			req := types.ScheduleBatchRequest{
				SourceID:      sourceID,
				IntervalHours: intervalHours,
				Destinations:  destinations,
			}
			if startStr != "" {
				start, err := time.Parse(time.RFC3339, startStr)
				if err != nil {
					return fmt.Errorf("invalid start time (want RFC3339): %w", err)
				}
				req.StartTime = start
			}

			resp, err := apiClient.ScheduleBatch(context.Background(), req)
			if err != nil {
				return fmt.Errorf("error scheduling batch: %w", err)
			}

			return printJSON(resp)
		},
	}

	scheduleCmd.Flags().StringP("source", "i", "", "Source video ID whose clips to schedule")
	scheduleCmd.Flags().String("start", "", "First publish time in RFC3339 format (default: now)")
	scheduleCmd.Flags().Float64("interval-hours", 0, "Hours between consecutive clips (default: server default)")
	scheduleCmd.Flags().StringSliceP("destinations", "d", nil, "Destinations to publish to (default: all registered)")
	_ = scheduleCmd.MarkFlagRequired("source")

	return scheduleCmd
}

// GetProcessCmd returns the process command
func GetProcessCmd() *cobra.Command {
	processCmd := &cobra.Command{
		Use:   "process",
		Short: "Publish every job whose scheduled time has passed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			resp, err := apiClient.ProcessDue(context.Background(), dryRun)
			if err != nil {
				return fmt.Errorf("error processing jobs: %w", err)
			}

			return printJSON(resp)
		},
	}

	processCmd.Flags().Bool("dry-run", false, "Report due jobs without publishing or changing state")

	return processCmd
}
