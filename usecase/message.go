package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fillow/wap-core/core/bridge"
	domainInstance "github.com/fillow/wap-core/domains/instance"
	domainMessage "github.com/fillow/wap-core/domains/message"
)

// MessageService drives outbound messaging for the Northbound API
//: it forwards the request to the Bridge under the calling
// Instance's session and token, then appends the result to Message
// History with from_me=true.
type MessageService struct {
	bridge   *bridge.Client
	messages domainMessage.Repository
}

func NewMessageService(bridgeClient *bridge.Client, messages domainMessage.Repository) *MessageService {
	return &MessageService{bridge: bridgeClient, messages: messages}
}

func (s *MessageService) record(ctx context.Context, inst domainInstance.Instance, msgType domainMessage.Type, remoteJID, content, wamid string) {
	_, _ = s.messages.Create(ctx, domainMessage.Message{
		ID:         uuid.NewString(),
		InstanceID: inst.ID,
		RemoteJID:  remoteJID,
		FromMe:     true,
		Type:       msgType,
		Content:    content,
		Wamid:      wamid,
		Timestamp:  time.Now().UTC(),
	})
}

type SendTextRequest struct {
	To      string `json:"to"`
	Text    string `json:"text"`
	Type    string `json:"type"` // "" for plain text, "image" to send an image by URL
	ImageURL string `json:"image_url,omitempty"`
}

func (s *MessageService) SendText(ctx context.Context, inst domainInstance.Instance, req SendTextRequest) (any, error) {
	msgType := domainMessage.TypeText
	payload := map[string]any{"to": req.To, "text": req.Text}
	if req.Type == "image" && req.ImageURL != "" {
		msgType = domainMessage.TypeImage
		payload["image_url"] = req.ImageURL
	}
	raw, err := s.bridge.SendText(ctx, inst.SessionID, inst.Token, payload)
	if err != nil {
		return nil, err
	}
	s.record(ctx, inst, msgType, req.To, req.Text, "")
	return raw, nil
}

func (s *MessageService) SendMedia(ctx context.Context, inst domainInstance.Instance, fields map[string]string, files map[string][]byte, names map[string]string) (any, error) {
	raw, err := s.bridge.SendMedia(ctx, inst.SessionID, inst.Token, fields, files, names)
	if err != nil {
		return nil, err
	}
	s.record(ctx, inst, domainMessage.TypeOther, fields["to"], fields["caption"], "")
	return raw, nil
}

func (s *MessageService) SendVoice(ctx context.Context, inst domainInstance.Instance, fields map[string]string, files map[string][]byte, names map[string]string) (any, error) {
	raw, err := s.bridge.SendVoice(ctx, inst.SessionID, inst.Token, fields, files, names)
	if err != nil {
		return nil, err
	}
	s.record(ctx, inst, domainMessage.TypeAudio, fields["to"], "", "")
	return raw, nil
}

func (s *MessageService) SendPoll(ctx context.Context, inst domainInstance.Instance, payload any) (any, error) {
	return s.bridge.SendPoll(ctx, inst.SessionID, inst.Token, payload)
}

func (s *MessageService) SendLocation(ctx context.Context, inst domainInstance.Instance, payload any) (any, error) {
	return s.bridge.SendLocation(ctx, inst.SessionID, inst.Token, payload)
}

func (s *MessageService) SendContact(ctx context.Context, inst domainInstance.Instance, payload any) (any, error) {
	return s.bridge.SendContact(ctx, inst.SessionID, inst.Token, payload)
}

func (s *MessageService) SendReaction(ctx context.Context, inst domainInstance.Instance, payload any) (any, error) {
	return s.bridge.SendReaction(ctx, inst.SessionID, inst.Token, payload)
}

func (s *MessageService) EditMessage(ctx context.Context, inst domainInstance.Instance, payload any) (any, error) {
	return s.bridge.EditMessage(ctx, inst.SessionID, inst.Token, payload)
}

func (s *MessageService) DeleteMessage(ctx context.Context, inst domainInstance.Instance, payload any) (any, error) {
	return s.bridge.DeleteMessage(ctx, inst.SessionID, inst.Token, payload)
}

func (s *MessageService) PinMessage(ctx context.Context, inst domainInstance.Instance, payload any) (any, error) {
	return s.bridge.PinMessage(ctx, inst.SessionID, inst.Token, payload)
}

func (s *MessageService) UnpinMessage(ctx context.Context, inst domainInstance.Instance, payload any) (any, error) {
	return s.bridge.UnpinMessage(ctx, inst.SessionID, inst.Token, payload)
}

func (s *MessageService) StarMessage(ctx context.Context, inst domainInstance.Instance, payload any) (any, error) {
	return s.bridge.StarMessage(ctx, inst.SessionID, inst.Token, payload)
}
