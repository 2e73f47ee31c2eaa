package cmd

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fillow/wap-core/config"
	"github.com/fillow/wap-core/ingress"
)

var listenerCmd = &cobra.Command{
	Use:   "listener",
	Short: "Connect to the Bridge's event WebSocket and feed events into the Ingress Pipeline",
	Run: func(_ *cobra.Command, _ []string) {
		pipeline := newPipeline()
		runListener(context.Background(), pipeline)
	},
}

func init() {
	rootCmd.AddCommand(listenerCmd)
}

// runListener dials the Bridge's event WebSocket and decodes each
// frame as an ingress.Event, the same {type, sessionId, data} envelope
// POST /webhook/node/ receives — the listener is an alternate
// transport for the identical event stream, not a different protocol.
// It reconnects with a fixed backoff on any read/dial error, mirroring
// the reconciler's outer-loop-keeps-running shape.
func runListener(ctx context.Context, pipeline *ingress.Pipeline) {
	wsURL := bridgeWebsocketURL(config.BridgeBaseURL)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := dialAndConsume(ctx, wsURL, pipeline); err != nil {
			logrus.WithError(err).WithField("url", wsURL).Error("listener connection failed, retrying in 5s")
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(5 * time.Second):
		}
	}
}

func dialAndConsume(ctx context.Context, wsURL string, pipeline *ingress.Pipeline) error {
	header := map[string][]string{"x-api-key": {config.BridgeAdminKey}}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header)
	if err != nil {
		return err
	}
	defer conn.Close()

	logrus.WithField("url", wsURL).Info("listener connected to Bridge event stream")

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var ev ingress.Event
		if err := json.Unmarshal(payload, &ev); err != nil {
			logrus.WithError(err).Warn("listener: malformed event frame, skipping")
			continue
		}

		status := pipeline.Handle(ctx, ev)
		logrus.WithField("type", ev.Type).WithField("session_id", ev.SessionID).WithField("status", status).Debug("listener: event processed")
	}
}

// bridgeWebsocketURL rewrites the Bridge's http(s) base URL to its
// ws(s) event endpoint.
func bridgeWebsocketURL(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return baseURL
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/events"
	return u.String()
}
