package rest

import (
	"context"
	"encoding/json"
)

// bridgeCall matches every core/bridge.Client method of the shape
// (ctx, sessionID, token, payload) -> (json.RawMessage, error), letting
// handlers adapt a Bridge method directly into a fiber.Handler instead
// of hand-writing one passthrough handler per route.
type bridgeCall func(ctx context.Context, sessionID, token string, payload any) (json.RawMessage, error)

// bridgeGroupCall matches the group-detail Bridge methods, which take
// an extra groupID path segment ahead of the payload.
type bridgeGroupCall func(ctx context.Context, sessionID, token, groupID string, payload any) (json.RawMessage, error)

// bridgeJIDCall matches the Bridge methods identified by a bare JID
// instead of a JSON payload (block/unblock).
type bridgeJIDCall func(ctx context.Context, sessionID, token, jid string) (json.RawMessage, error)
