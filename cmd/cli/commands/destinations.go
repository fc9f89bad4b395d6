package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// GetDestinationsCmd returns the destinations command
func GetDestinationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "destinations",
		Short: "List registered destinations and their auth state",
		RunE: func(_ *cobra.Command, _ []string) error {
			destinations, err := apiClient.GetDestinations(context.Background())
			if err != nil {
				return fmt.Errorf("error fetching destinations: %w", err)
			}
			return printJSON(destinations)
		},
	}
}
