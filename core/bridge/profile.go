package bridge

import (
	"context"
	"encoding/json"
	"net/http"
)

func (c *Client) ProfileInfo(ctx context.Context, sessionID, token, jid string) (json.RawMessage, error) {
	return c.userRequest(ctx, http.MethodGet, "/"+sessionID+"/profile/info/"+jid, token, nil)
}

func (c *Client) SetProfileStatus(ctx context.Context, sessionID, token string, payload any) (json.RawMessage, error) {
	return c.userRequest(ctx, http.MethodPut, "/"+sessionID+"/profile/manage/status", token, payload)
}

func (c *Client) SetProfilePicture(ctx context.Context, sessionID, token string, fields map[string]string, files map[string][]byte, names map[string]string) (json.RawMessage, error) {
	return c.userMultipart(ctx, "/"+sessionID+"/profile/manage/picture", token, fields, files, names)
}

func (c *Client) Blocklist(ctx context.Context, sessionID, token string) (json.RawMessage, error) {
	return c.userRequest(ctx, http.MethodGet, "/"+sessionID+"/profile/blocklist", token, nil)
}

func (c *Client) BlockUser(ctx context.Context, sessionID, token, jid string) (json.RawMessage, error) {
	return c.userRequest(ctx, http.MethodPost, "/"+sessionID+"/users/block", token, map[string]string{"jid": jid})
}

func (c *Client) UnblockUser(ctx context.Context, sessionID, token, jid string) (json.RawMessage, error) {
	return c.userRequest(ctx, http.MethodPost, "/"+sessionID+"/users/unblock", token, map[string]string{"jid": jid})
}

func (c *Client) CheckOnWhatsApp(ctx context.Context, sessionID, token, phone string) (json.RawMessage, error) {
	return c.userRequest(ctx, http.MethodPost, "/"+sessionID+"/users/check", token, map[string]string{"phone": phone})
}
