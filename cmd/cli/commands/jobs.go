package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// GetJobsCmd returns the jobs command with its subcommands
func GetJobsCmd() *cobra.Command {
	jobsCmd := &cobra.Command{
		Use:   "jobs",
		Short: "Manage publish jobs",
	}

	listJobsCmd := &cobra.Command{
		Use:   "list",
		Short: "List jobs ordered by scheduled time",
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, _ := cmd.Flags().GetString("status")
			page, _ := cmd.Flags().GetInt("page")
			batchID, _ := cmd.Flags().GetString("batch")

			if batchID != "" {
				jobs, err := apiClient.GetBatch(context.Background(), batchID)
				if err != nil {
					return fmt.Errorf("error fetching batch: %w", err)
				}
				return printJSON(jobs)
			}

			jobs, err := apiClient.GetJobs(context.Background(), status, page)
			if err != nil {
				return fmt.Errorf("error fetching jobs: %w", err)
			}
			return printJSON(jobs)
		},
	}
	listJobsCmd.Flags().StringP("status", "t", "", "Filter jobs by status (pending, posted, failed)")
	listJobsCmd.Flags().IntP("page", "p", 1, "Page number")
	listJobsCmd.Flags().StringP("batch", "b", "", "List every job of the given batch instead")

	getJobCmd := &cobra.Command{
		Use:   "get",
		Short: "Get a single job",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := jobIDFlag(cmd)
			if err != nil {
				return err
			}

			job, err := apiClient.GetJob(context.Background(), id)
			if err != nil {
				return fmt.Errorf("error fetching job: %w", err)
			}
			return printJSON(job)
		},
	}
	getJobCmd.Flags().StringP("id", "i", "", "Job ID to fetch")
	_ = getJobCmd.MarkFlagRequired("id")

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show job counts by status",
		RunE: func(_ *cobra.Command, _ []string) error {
			stats, err := apiClient.GetJobStats(context.Background())
			if err != nil {
				return fmt.Errorf("error fetching stats: %w", err)
			}
			return printJSON(stats)
		},
	}

	cancelCmd := &cobra.Command{
		Use:   "cancel",
		Short: "Cancel a pending job",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := jobIDFlag(cmd)
			if err != nil {
				return err
			}

			if err := apiClient.CancelJob(context.Background(), id); err != nil {
				return fmt.Errorf("error canceling job: %w", err)
			}
			fmt.Printf("job %d canceled\n", id)
			return nil
		},
	}
	cancelCmd.Flags().StringP("id", "i", "", "Job ID to cancel")
	_ = cancelCmd.MarkFlagRequired("id")

	jobsCmd.AddCommand(listJobsCmd)
	jobsCmd.AddCommand(getJobCmd)
	jobsCmd.AddCommand(statsCmd)
	jobsCmd.AddCommand(cancelCmd)

	return jobsCmd
}

func jobIDFlag(cmd *cobra.Command) (uint, error) {
	idStr, _ := cmd.Flags().GetString("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid job id %q: %w", idStr, err)
	}
	return uint(id), nil
}
