// Package ingress is the single authenticated HTTP endpoint the Bridge
// calls for every asynchronous event: QR codes, connection state, and
// inbound wire messages. Grounded on the teacher's webhook adapter
// shape and on original_source/fillow's run_whatsapp_listener.py's
// process_message/process_connection split.
package ingress

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	domainCampaign "github.com/fillow/wap-core/domains/campaign"
	domainErrorLog "github.com/fillow/wap-core/domains/errorlog"
	domainInstance "github.com/fillow/wap-core/domains/instance"
	domainMessage "github.com/fillow/wap-core/domains/message"
	domainTenant "github.com/fillow/wap-core/domains/tenant"
	domainWebhook "github.com/fillow/wap-core/domains/webhook"
	"github.com/fillow/wap-core/pkg/botmonitor"
	"github.com/fillow/wap-core/sessionmgr"
)

// ChatbotTrigger hands a freshly-persisted inbound message to the
// Chatbot Engine without the ingress pipeline depending on its full
// implementation — it only needs to fire-and-forget the trigger.
type ChatbotTrigger interface {
	Handle(ctx context.Context, inst domainInstance.Instance, msg domainMessage.Message)
}

// Event is the Bridge's wire envelope: {type, sessionId, data}.
type Event struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId"`
	Data      json.RawMessage `json:"data"`
}

const (
	ResultProcessed          = "processed"
	ResultIgnored            = "ignored"
	ResultPlanExpiredIgnored = "plan_expired_ignored"
)

// Pipeline wires the ingress endpoint to the Instance Store, Message
// History, WebhookConfig fan-out, and (optionally) the Chatbot Engine.
type Pipeline struct {
	instances  domainInstance.Repository
	tenants    domainTenant.Repository
	webhooks   domainWebhook.Repository
	messages   domainMessage.Repository
	queueItems domainCampaign.QueueItemRepository
	mgr        *sessionmgr.Manager
	chatbot    ChatbotTrigger
	errorLog   domainErrorLog.Repository

	httpClient *http.Client
}

func NewPipeline(
	instances domainInstance.Repository,
	tenants domainTenant.Repository,
	webhooks domainWebhook.Repository,
	messages domainMessage.Repository,
	queueItems domainCampaign.QueueItemRepository,
	mgr *sessionmgr.Manager,
	chatbot ChatbotTrigger,
	errorLog domainErrorLog.Repository,
) *Pipeline {
	return &Pipeline{
		instances:  instances,
		tenants:    tenants,
		webhooks:   webhooks,
		messages:   messages,
		queueItems: queueItems,
		mgr:        mgr,
		chatbot:    chatbot,
		errorLog:   errorLog,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// Handle dispatches one Event to the matching class handler and returns
// the result string the HTTP layer reports back to the Bridge.
func (p *Pipeline) Handle(ctx context.Context, ev Event) string {
	switch ev.Type {
	case "session-update", "connection.update", "qr":
		return p.handleConnectionEvent(ctx, ev)
	case "message":
		return p.handleMessageEvent(ctx, ev)
	case "message.ack", "messages.update":
		return p.handleAckEvent(ctx, ev)
	default:
		return ResultIgnored
	}
}

type connectionData struct {
	Status      string `json:"status"`
	Connection  string `json:"connection"`
	Token       string `json:"token"`
	PhoneNumber string `json:"phoneNumber"`
	QR          string `json:"qr"`
	Me          struct {
		ID string `json:"id"`
	} `json:"me"`
}

func (p *Pipeline) handleConnectionEvent(ctx context.Context, ev Event) string {
	inst, err := p.instances.GetBySessionID(ctx, ev.SessionID)
	if err != nil {
		return ResultIgnored
	}

	tenant, err := p.tenants.GetByID(ctx, inst.OwnerTenantID)
	if err != nil || !tenant.IsPlanValid(time.Now()) {
		return ResultPlanExpiredIgnored
	}

	var data connectionData
	if err := json.Unmarshal(ev.Data, &data); err != nil {
		p.logFailure("INGRESS", inst.ID, "malformed connection event", ev.Data, err)
		return ResultIgnored
	}

	statusRaw := data.Status
	if statusRaw == "" {
		statusRaw = data.Connection
	}
	status := inst.Status
	if statusRaw != "" {
		status = domainInstance.StatusFromBridge(statusRaw)
	}

	phone := inst.PhoneConnected
	if data.Me.ID != "" {
		phone = strings.SplitN(data.Me.ID, ":", 2)[0]
	} else if data.PhoneNumber != "" {
		phone = data.PhoneNumber
	}

	token := inst.Token
	if data.Token != "" {
		token = data.Token
	}

	if data.QR != "" && status != domainInstance.StatusConnected {
		status = domainInstance.StatusQRScanned
	}

	if err := p.instances.CompareAndSetStatus(ctx, inst.SessionID, status, token, phone); err != nil {
		p.logFailure("INGRESS", inst.ID, "failed to update instance from connection event", ev.Data, err)
		return ResultIgnored
	}

	if status == domainInstance.StatusConnected && data.Token == "" && p.mgr != nil {
		if _, err := p.mgr.SelfHeal(ctx, inst.SessionID); err != nil {
			p.logFailure("INGRESS", inst.ID, "token self-heal failed after connection event", ev.Data, err)
		}
	}

	p.fanOut(ctx, inst, "connection.update", ev.Data, true)
	return ResultProcessed
}

type messageData struct {
	Key struct {
		RemoteJID string `json:"remoteJid"`
		FromMe    bool   `json:"fromMe"`
		ID        string `json:"id"`
	} `json:"key"`
	PushName string                 `json:"pushName"`
	Message  map[string]any         `json:"message"`
	Content  string                 `json:"content"`
}

func (p *Pipeline) handleMessageEvent(ctx context.Context, ev Event) string {
	inst, err := p.instances.GetBySessionID(ctx, ev.SessionID)
	if err != nil {
		return ResultIgnored
	}

	tenant, err := p.tenants.GetByID(ctx, inst.OwnerTenantID)
	if err != nil || !tenant.IsPlanValid(time.Now()) {
		return ResultPlanExpiredIgnored
	}

	var data messageData
	if err := json.Unmarshal(ev.Data, &data); err != nil {
		p.logFailure("INGRESS", inst.ID, "malformed message event", ev.Data, err)
		return ResultIgnored
	}
	if data.Key.RemoteJID == "" {
		return ResultIgnored
	}

	inner := unwrapMessage(data.Message)
	content := effectiveText(inner, data.Content)
	msgType := domainMessage.Type(messageType(inner))

	msg := domainMessage.Message{
		ID:         uuid.NewString(),
		InstanceID: inst.ID,
		RemoteJID:  data.Key.RemoteJID,
		FromMe:     data.Key.FromMe,
		PushName:   data.PushName,
		Type:       msgType,
		Content:    content,
		Wamid:      data.Key.ID,
		Timestamp:  time.Now().UTC(),
	}

	persisted := false
	if data.Key.ID != "" {
		exists, err := p.messages.ExistsByWamid(ctx, data.Key.ID)
		if err != nil {
			p.logFailure("INGRESS", inst.ID, "dedup lookup failed", ev.Data, err)
		} else if !exists {
			if _, err := p.messages.Create(ctx, msg); err != nil {
				p.logFailure("INGRESS", inst.ID, "failed to persist inbound message", ev.Data, err)
			} else {
				persisted = true
			}
		}
	}

	// A redelivered event whose wamid already exists was handled before;
	// triggering the bot again here would double-reply.
	if persisted && p.chatbot != nil && !msg.FromMe && content != "" {
		go p.chatbot.Handle(context.Background(), inst, msg)
	}

	p.fanOut(ctx, inst, "message", ev.Data, persisted)
	return ResultProcessed
}

type ackData struct {
	Key struct {
		ID string `json:"id"`
	} `json:"key"`
	Status any `json:"status"`
	Ack    any `json:"ack"`
}

// ackStatusByName maps the Bridge's string status vocabulary to the
// QueueItem ack-progression statuses.
var ackStatusByName = map[string]domainCampaign.QueueItemStatus{
	"sent":         domainCampaign.QueueItemSent,
	"server_ack":   domainCampaign.QueueItemSent,
	"delivery_ack": domainCampaign.QueueItemDelivered,
	"delivered":    domainCampaign.QueueItemDelivered,
	"read":         domainCampaign.QueueItemRead,
	"played":       domainCampaign.QueueItemPlayed,
}

// ackStatusByCode maps the Bridge's numeric ack codes (the common
// Baileys 0..4 vocabulary) to the same statuses.
var ackStatusByCode = map[int]domainCampaign.QueueItemStatus{
	1: domainCampaign.QueueItemSent,
	2: domainCampaign.QueueItemDelivered,
	3: domainCampaign.QueueItemRead,
	4: domainCampaign.QueueItemPlayed,
}

func resolveAckStatus(raw any) (domainCampaign.QueueItemStatus, bool) {
	switch v := raw.(type) {
	case string:
		status, ok := ackStatusByName[strings.ToLower(v)]
		return status, ok
	case float64:
		status, ok := ackStatusByCode[int(v)]
		return status, ok
	default:
		return "", false
	}
}

// handleAckEvent correlates a Bridge delivery-receipt event to a
// Dispatch Queue item by wamid and advances its ack status, refusing
// to regress along SENT -> DELIVERED -> READ -> PLAYED.
func (p *Pipeline) handleAckEvent(ctx context.Context, ev Event) string {
	if p.queueItems == nil {
		return ResultIgnored
	}

	var data ackData
	if err := json.Unmarshal(ev.Data, &data); err != nil {
		p.logFailure("INGRESS", "", "malformed ack event", ev.Data, err)
		return ResultIgnored
	}
	if data.Key.ID == "" {
		return ResultIgnored
	}

	next, ok := resolveAckStatus(data.Status)
	if !ok {
		next, ok = resolveAckStatus(data.Ack)
	}
	if !ok {
		return ResultIgnored
	}

	item, err := p.queueItems.GetByWamid(ctx, data.Key.ID)
	if err != nil {
		return ResultIgnored
	}
	if !domainCampaign.AdvanceAck(item.Status, next) {
		return ResultIgnored
	}
	if err := p.queueItems.AdvanceAckStatus(ctx, item.ID, next); err != nil {
		p.logFailure("INGRESS", "", "failed to advance queue item ack status", ev.Data, err)
		return ResultIgnored
	}
	return ResultProcessed
}

// fanOut POSTs the original Bridge payload to the tenant's configured
// callback URL if the matching flag is enabled. Failures are logged,
// never retried here — retrying a webhook delivery is the tenant's
// responsibility, not ours.
func (p *Pipeline) fanOut(ctx context.Context, inst domainInstance.Instance, kind string, raw json.RawMessage, matched bool) {
	if !matched {
		return
	}
	cfg, err := p.webhooks.GetByInstanceID(ctx, inst.ID)
	if err != nil || cfg.URL == "" {
		return
	}

	enabled := kind == "connection.update" || (kind == "message" && cfg.SendMessages) || (kind == "presence" && cfg.SendPresence)
	if !enabled {
		return
	}

	reqCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, cfg.URL, strings.NewReader(string(raw)))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.logFailure("INGRESS", inst.ID, "webhook fan-out failed", raw, err)
		return
	}
	_ = resp.Body.Close()
}

func (p *Pipeline) logFailure(component, instanceID, message string, payload json.RawMessage, err error) {
	logrus.WithField("component", component).WithField("instance_id", instanceID).WithError(err).Error(message)
	botmonitor.Record(botmonitor.Event{
		Component:  component,
		InstanceID: instanceID,
		Message:    message,
		Payload:    string(payload),
		Status:     "error",
		Metadata:   map[string]string{"error": err.Error()},
	})
	if p.errorLog != nil {
		_, _ = p.errorLog.Create(context.Background(), domainErrorLog.Entry{
			Component:  component,
			InstanceID: instanceID,
			Message:    message,
			Payload:    string(payload),
			Error:      err.Error(),
			CreatedAt:  time.Now().UTC(),
		})
	}
}
