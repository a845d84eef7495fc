package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthgrpc "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/aethervoice/assistant/internal/rpc"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the assistant's gRPC health endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()

			conn, err := grpc.NewClient(grpcAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
			if err != nil {
				return err
			}
			defer conn.Close()

			client := healthgrpc.NewHealthClient(conn)
			resp, err := client.Check(ctx, &healthgrpc.HealthCheckRequest{Service: rpc.ServiceName})
			if err != nil {
				logger.Error("health check failed", "addr", grpcAddr, "error", err)
				return err
			}

			logger.Info("assistant health", "addr", grpcAddr, "status", resp.Status.String())
			return nil
		},
	}
}
