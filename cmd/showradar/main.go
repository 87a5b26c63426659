package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "showradar",
		Short: "Rank trending TV shows against their prediction-market price",
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")

	root.AddCommand(refreshCmd())
	root.AddCommand(recalcCmd())
	root.AddCommand(topCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(runCmd())

	return root
}

func refreshCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Fetch all sources, score the cohort, and persist a snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRefresh(jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}

func recalcCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "recalc",
		Short: "Re-score the last snapshot without re-fetching sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecalc(jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}

func topCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "top",
		Short: "Show the latest ranked analysis",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTop(jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "server port (default: from config)")
	return cmd
}

func runCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start daemon with scheduler and HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "server port (default: from config)")
	return cmd
}
