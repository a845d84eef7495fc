// Command assistantctl is an operator CLI for a running assistant process:
// it checks health, dumps resolved configuration, and tails the websocket
// transcript bridge.
package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	grpcAddr string
	wsAddr   string
	logger   = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "assistantctl",
		Short: "Operate a running assistant process",
	}
	rootCmd.PersistentFlags().StringVar(&grpcAddr, "grpc-addr", "localhost:50051", "assistant gRPC listen address")
	rootCmd.PersistentFlags().StringVar(&wsAddr, "ws-addr", "localhost:9090", "assistant metrics/websocket listen address")

	rootCmd.AddCommand(statusCmd(), configCmd(), watchCmd())

	if err := rootCmd.Execute(); err != nil {
		logger.Fatal(err)
	}
}
