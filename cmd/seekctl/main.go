// Command seekctl is the operator CLI for a running seekerd instance: submit
// queries, inspect status, clear the cache, and inspect research provenance.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var serverAddr string

	root := &cobra.Command{
		Use:           "seekctl",
		Short:         "seekctl — operator CLI for the Knowledge Seeker",
		Long:          "seekctl talks to a running seekerd instance over its HTTP API to submit queries, inspect status, and manage the response cache.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&serverAddr, "server", envOr("SEEKCTL_SERVER", "http://localhost:8080"), "seekerd base URL")

	root.AddCommand(newQueryCmd(&serverAddr))
	root.AddCommand(newStatusCmd(&serverAddr))
	root.AddCommand(newCacheCmd(&serverAddr))
	root.AddCommand(newProvenanceCmd(&serverAddr))
	root.AddCommand(newVersionCmd())

	return root
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print seekctl's version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), "seekctl 0.1.0")
			return nil
		},
	}
}
