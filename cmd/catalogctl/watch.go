package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	watchURL    string
	watchPretty bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream catalog events from a running API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		for {
			err := watch(ctx, watchURL, watchPretty, cmd.OutOrStdout())
			if ctx.Err() != nil {
				return nil
			}
			logger.Warn("feed disconnected", zap.String("url", watchURL), zap.Error(err))

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second): // reconnect
			}
		}
	},
}

func watch(ctx context.Context, url string, pretty bool, out io.Writer) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", url, err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	logger.Info("connected", zap.String("url", url))
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, formatEvent(msg, pretty))
	}
}

func formatEvent(msg []byte, pretty bool) string {
	if !pretty {
		return string(msg)
	}
	var obj map[string]any
	if err := json.Unmarshal(msg, &obj); err != nil {
		// not JSON, print raw
		return string(msg)
	}
	b, _ := json.MarshalIndent(obj, "", "  ")
	return string(b)
}

func init() {
	watchCmd.Flags().StringVar(&watchURL, "url", "ws://localhost:8080/ws", "websocket feed URL")
	watchCmd.Flags().BoolVar(&watchPretty, "pretty", true, "pretty print JSON events")
}
