package bridge

import (
	"context"
	"encoding/json"
	"net/http"
)

// SessionEntry is one row of the admin-mode session list, the payload
// Token Self-Heal reads to recover the current token for a session_id.
type SessionEntry struct {
	SessionID string `json:"sessionId"`
	Status    string `json:"status"`
	Token     string `json:"token"`
	PhoneNumber string `json:"phoneNumber"`
	MeID      string `json:"me.id"`
}

// StartSession calls admin-mode POST /sessions/start.
func (c *Client) StartSession(ctx context.Context, sessionID string) (json.RawMessage, error) {
	return c.adminRequest(ctx, http.MethodPost, "/sessions/start", map[string]string{"sessionId": sessionID})
}

// DeleteSession calls admin-mode DELETE /sessions/<id>. Best-effort:
// callers (Instance Store §4.B) proceed with local row removal
// regardless of this call's outcome.
func (c *Client) DeleteSession(ctx context.Context, sessionID string) (json.RawMessage, error) {
	return c.adminRequest(ctx, http.MethodDelete, "/sessions/"+sessionID, nil)
}

// ListSessions calls admin-mode GET /sessions.
func (c *Client) ListSessions(ctx context.Context) ([]SessionEntry, error) {
	raw, err := c.adminRequest(ctx, http.MethodGet, "/sessions", nil)
	if err != nil {
		return nil, err
	}
	var entries []SessionEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// GetQR calls admin-mode GET /sessions/<id>/qr, which returns
// {qr, qrCode, status}.
func (c *Client) GetQR(ctx context.Context, sessionID string) (json.RawMessage, error) {
	return c.adminRequest(ctx, http.MethodGet, "/sessions/"+sessionID+"/qr", nil)
}

// GetStatus calls the session_token-protected GET /<id>/status.
func (c *Client) GetStatus(ctx context.Context, sessionID, token string) (json.RawMessage, error) {
	return c.userRequest(ctx, http.MethodGet, "/"+sessionID+"/status", token, nil)
}
