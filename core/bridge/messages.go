package bridge

import (
	"context"
	"encoding/json"
	"net/http"
)

func (c *Client) SendText(ctx context.Context, sessionID, token string, payload any) (json.RawMessage, error) {
	return c.userRequest(ctx, http.MethodPost, "/"+sessionID+"/messages/send", token, payload)
}

func (c *Client) SendMedia(ctx context.Context, sessionID, token string, fields map[string]string, files map[string][]byte, names map[string]string) (json.RawMessage, error) {
	return c.userMultipart(ctx, "/"+sessionID+"/messages/send-media", token, fields, files, names)
}

func (c *Client) SendVoice(ctx context.Context, sessionID, token string, fields map[string]string, files map[string][]byte, names map[string]string) (json.RawMessage, error) {
	return c.userMultipart(ctx, "/"+sessionID+"/messages/send-voice", token, fields, files, names)
}

func (c *Client) SendPoll(ctx context.Context, sessionID, token string, payload any) (json.RawMessage, error) {
	return c.userRequest(ctx, http.MethodPost, "/"+sessionID+"/messages/poll", token, payload)
}

func (c *Client) SendLocation(ctx context.Context, sessionID, token string, payload any) (json.RawMessage, error) {
	return c.userRequest(ctx, http.MethodPost, "/"+sessionID+"/messages/location", token, payload)
}

func (c *Client) SendContact(ctx context.Context, sessionID, token string, payload any) (json.RawMessage, error) {
	return c.userRequest(ctx, http.MethodPost, "/"+sessionID+"/messages/contact", token, payload)
}

func (c *Client) SendReaction(ctx context.Context, sessionID, token string, payload any) (json.RawMessage, error) {
	return c.userRequest(ctx, http.MethodPost, "/"+sessionID+"/messages/reaction", token, payload)
}

func (c *Client) EditMessage(ctx context.Context, sessionID, token string, payload any) (json.RawMessage, error) {
	return c.userRequest(ctx, http.MethodPost, "/"+sessionID+"/messages/edit", token, payload)
}

func (c *Client) DeleteMessage(ctx context.Context, sessionID, token string, payload any) (json.RawMessage, error) {
	return c.userRequest(ctx, http.MethodPost, "/"+sessionID+"/messages/delete", token, payload)
}

func (c *Client) PinMessage(ctx context.Context, sessionID, token string, payload any) (json.RawMessage, error) {
	return c.userRequest(ctx, http.MethodPost, "/"+sessionID+"/messages/pin", token, payload)
}

func (c *Client) UnpinMessage(ctx context.Context, sessionID, token string, payload any) (json.RawMessage, error) {
	return c.userRequest(ctx, http.MethodPost, "/"+sessionID+"/messages/unpin", token, payload)
}

func (c *Client) StarMessage(ctx context.Context, sessionID, token string, payload any) (json.RawMessage, error) {
	return c.userRequest(ctx, http.MethodPost, "/"+sessionID+"/messages/star", token, payload)
}

// MarkMessageRead calls POST messages/read for a specific message key,
// the first of the two read-receipt calls the Chatbot Engine issues.
func (c *Client) MarkMessageRead(ctx context.Context, sessionID, token string, payload any) (json.RawMessage, error) {
	return c.userRequest(ctx, http.MethodPost, "/"+sessionID+"/messages/read", token, payload)
}
