package main

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/connexus-ai/knowledge-seeker/internal/model"
)

func newQueryCmd(serverAddr *string) *cobra.Command {
	var maxResults int
	var priority string

	cmd := &cobra.Command{
		Use:   "query <text>",
		Short: "Submit a single knowledge query and print the response",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newAPIClient(*serverAddr)

			q := model.KnowledgeQuery{
				ID:         uuid.NewString(),
				Query:      args[0],
				MaxResults: maxResults,
				Priority:   model.Priority(priority),
			}

			var resp model.KnowledgeResponse
			if err := client.do(http.MethodPost, "/api/queries", q, &resp); err != nil {
				return err
			}

			out, err := json.MarshalIndent(resp, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().IntVar(&maxResults, "max-results", 10, "maximum results to request")
	cmd.Flags().StringVar(&priority, "priority", string(model.PriorityMedium), "query priority: critical|high|medium|low")

	return cmd
}
