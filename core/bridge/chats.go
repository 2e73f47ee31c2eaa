package bridge

import (
	"context"
	"encoding/json"
	"net/http"
)

func (c *Client) ArchiveChat(ctx context.Context, sessionID, token string, payload any) (json.RawMessage, error) {
	return c.userRequest(ctx, http.MethodPost, "/"+sessionID+"/chats/archive", token, payload)
}

func (c *Client) MuteChat(ctx context.Context, sessionID, token string, payload any) (json.RawMessage, error) {
	return c.userRequest(ctx, http.MethodPost, "/"+sessionID+"/chats/mute", token, payload)
}

func (c *Client) ClearChat(ctx context.Context, sessionID, token string, payload any) (json.RawMessage, error) {
	return c.userRequest(ctx, http.MethodPost, "/"+sessionID+"/chats/clear", token, payload)
}

// MarkChatRead calls POST chats/mark-read, the always-run second
// read-receipt call in the Chatbot Engine's preamble.
func (c *Client) MarkChatRead(ctx context.Context, sessionID, token string, payload any) (json.RawMessage, error) {
	return c.userRequest(ctx, http.MethodPost, "/"+sessionID+"/chats/mark-read", token, payload)
}

// SetPresence calls POST presence/set with state in {composing, paused}.
func (c *Client) SetPresence(ctx context.Context, sessionID, token, jid, state string) (json.RawMessage, error) {
	return c.userRequest(ctx, http.MethodPost, "/"+sessionID+"/presence/set", token, map[string]string{
		"jid":   jid,
		"state": state,
	})
}
