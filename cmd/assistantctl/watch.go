package main

import (
	"context"
	"fmt"

	"github.com/coder/websocket"
	"github.com/spf13/cobra"
)

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Tail the websocket transcript bridge and print events as they arrive",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			url := fmt.Sprintf("ws://%s/ws/transcript", wsAddr)

			conn, _, err := websocket.Dial(ctx, url, nil)
			if err != nil {
				return err
			}
			defer conn.Close(websocket.StatusNormalClosure, "")

			logger.Info("watching transcript bridge", "addr", wsAddr)
			for {
				_, data, err := conn.Read(ctx)
				if err != nil {
					logger.Warn("transcript bridge connection closed", "error", err)
					return err
				}
				logger.Info("event", "payload", string(data))
			}
		},
	}
}
