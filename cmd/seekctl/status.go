package main

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/connexus-ai/knowledge-seeker/internal/seeker"
)

func newStatusCmd(serverAddr *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the seeker's health, providers, and processing stats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newAPIClient(*serverAddr)

			var status seeker.Status
			if err := client.do(http.MethodGet, "/api/status", nil, &status); err != nil {
				return err
			}

			out, err := json.MarshalIndent(status, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}

func newCacheCmd(serverAddr *string) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the seeker's response cache",
	}

	cacheCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Clear the response cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newAPIClient(*serverAddr)
			if err := client.do(http.MethodPost, "/api/cache/clear", nil, nil); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "cache cleared")
			return nil
		},
	})

	return cacheCmd
}
