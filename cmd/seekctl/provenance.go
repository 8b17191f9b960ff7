package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/connexus-ai/knowledge-seeker/internal/model"
)

func newProvenanceCmd(serverAddr *string) *cobra.Command {
	provenanceCmd := &cobra.Command{
		Use:   "provenance",
		Short: "Inspect research provenance records",
	}

	provenanceCmd.AddCommand(newProvenanceTaskCmd(serverAddr))
	provenanceCmd.AddCommand(newProvenanceStatsCmd(serverAddr))

	return provenanceCmd
}

func newProvenanceTaskCmd(serverAddr *string) *cobra.Command {
	return &cobra.Command{
		Use:   "task <task-id>",
		Short: "Print the provenance records recorded for a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newAPIClient(*serverAddr)

			var records []model.ResearchProvenanceRecord
			path := "/api/provenance/" + url.PathEscape(args[0])
			if err := client.do(http.MethodGet, path, nil, &records); err != nil {
				return err
			}

			out, err := json.MarshalIndent(records, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}

func newProvenanceStatsCmd(serverAddr *string) *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print aggregate provenance statistics over a date range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newAPIClient(*serverAddr)

			q := url.Values{}
			if start != "" {
				q.Set("start", start)
			}
			if end != "" {
				q.Set("end", end)
			}
			path := "/api/provenance/stats"
			if encoded := q.Encode(); encoded != "" {
				path += "?" + encoded
			}

			var stats model.ProvenanceStatistics
			if err := client.do(http.MethodGet, path, nil, &stats); err != nil {
				return err
			}

			out, err := json.MarshalIndent(stats, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "range start, RFC3339 (default: 30 days ago)")
	cmd.Flags().StringVar(&end, "end", "", "range end, RFC3339 (default: now)")

	return cmd
}
