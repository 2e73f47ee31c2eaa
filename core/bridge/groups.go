package bridge

import (
	"context"
	"encoding/json"
	"net/http"
)

func (c *Client) ListGroups(ctx context.Context, sessionID, token string) (json.RawMessage, error) {
	return c.userRequest(ctx, http.MethodGet, "/"+sessionID+"/groups", token, nil)
}

func (c *Client) CreateGroup(ctx context.Context, sessionID, token string, payload any) (json.RawMessage, error) {
	return c.userRequest(ctx, http.MethodPost, "/"+sessionID+"/groups/create", token, payload)
}

func (c *Client) JoinGroup(ctx context.Context, sessionID, token string, payload any) (json.RawMessage, error) {
	return c.userRequest(ctx, http.MethodPost, "/"+sessionID+"/groups/join", token, payload)
}

func (c *Client) GroupParticipants(ctx context.Context, sessionID, token, groupID, action string, payload any) (json.RawMessage, error) {
	return c.userRequest(ctx, http.MethodPost, "/"+sessionID+"/groups/"+groupID+"/participants/"+action, token, payload)
}

func (c *Client) LeaveGroup(ctx context.Context, sessionID, token, groupID string) (json.RawMessage, error) {
	return c.userRequest(ctx, http.MethodPost, "/"+sessionID+"/groups/"+groupID+"/leave", token, nil)
}

func (c *Client) GroupSubject(ctx context.Context, sessionID, token, groupID string, payload any) (json.RawMessage, error) {
	return c.userRequest(ctx, http.MethodPut, "/"+sessionID+"/groups/"+groupID+"/subject", token, payload)
}

func (c *Client) GroupDescription(ctx context.Context, sessionID, token, groupID string, payload any) (json.RawMessage, error) {
	return c.userRequest(ctx, http.MethodPut, "/"+sessionID+"/groups/"+groupID+"/description", token, payload)
}

func (c *Client) GroupSettings(ctx context.Context, sessionID, token, groupID string, payload any) (json.RawMessage, error) {
	return c.userRequest(ctx, http.MethodPut, "/"+sessionID+"/groups/"+groupID+"/settings", token, payload)
}

func (c *Client) GroupInviteCode(ctx context.Context, sessionID, token, groupID string) (json.RawMessage, error) {
	return c.userRequest(ctx, http.MethodGet, "/"+sessionID+"/groups/"+groupID+"/invite-code", token, nil)
}

func (c *Client) GroupRevokeInvite(ctx context.Context, sessionID, token, groupID string) (json.RawMessage, error) {
	return c.userRequest(ctx, http.MethodPost, "/"+sessionID+"/groups/"+groupID+"/revoke-invite", token, nil)
}
