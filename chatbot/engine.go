package chatbot

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fillow/wap-core/chatbot/providers"
	"github.com/fillow/wap-core/core/bridge"
	domainChatbotConfig "github.com/fillow/wap-core/domains/chatbotconfig"
	domainChatbotContact "github.com/fillow/wap-core/domains/chatbotcontact"
	domainInstance "github.com/fillow/wap-core/domains/instance"
	domainMessage "github.com/fillow/wap-core/domains/message"
	domainTenant "github.com/fillow/wap-core/domains/tenant"
	"github.com/fillow/wap-core/pkg/crypto"
	"github.com/fillow/wap-core/sessionmgr"
)

// Engine implements ingress.ChatbotTrigger: one inbound message drives
// zero-or-more outbound actions as a single bounded task, grounded on
// botengine/engine.go's ProcessMessage orchestration, narrowed to
// spec.md §4.G's five ordered preconditions and single-shot Decision
// contract.
type Engine struct {
	configs  domainChatbotConfig.Repository
	contacts domainChatbotContact.Repository
	messages domainMessage.Repository
	tenants  domainTenant.Repository
	bridge   *bridge.Client
	mgr      *sessionmgr.Manager
	hum      *humanizer
	dispatch *Dispatcher
}

// NewEngine wires the Chatbot Engine's dependencies. mgr backs the
// Token Self-Heal + one-retry sequence on Bridge auth-denied errors,
// the same sessionmgr.Manager the reconciler and dispatch worker use.
func NewEngine(
	configs domainChatbotConfig.Repository,
	contacts domainChatbotContact.Repository,
	messages domainMessage.Repository,
	tenants domainTenant.Repository,
	bridgeClient *bridge.Client,
	mgr *sessionmgr.Manager,
) *Engine {
	e := &Engine{
		configs:  configs,
		contacts: contacts,
		messages: messages,
		tenants:  tenants,
		bridge:   bridgeClient,
		mgr:      mgr,
		hum:      newHumanizer(bridgeClient),
	}
	e.dispatch = NewDispatcher(e.process)
	return e
}

// Handle implements ingress.ChatbotTrigger. It enqueues the message on
// the per-(instance,remote_jid) shard dispatcher so two inbound
// messages from the same conversation never run concurrently, and
// returns immediately — fire-and-forget from the ingress pipeline's
// point of view.
func (e *Engine) Handle(ctx context.Context, inst domainInstance.Instance, msg domainMessage.Message) {
	e.dispatch.Submit(inst, msg)
}

// process runs the full precondition -> resolution -> decision ->
// action pipeline for a single inbound message. All failures are
// fail-silent: a broken chatbot config must never surface an error to
// the end user or break the ingress pipeline.
func (e *Engine) process(ctx context.Context, inst domainInstance.Instance, msg domainMessage.Message) {
	cfg, err := e.configs.GetByInstanceID(ctx, inst.ID)
	if err != nil {
		return
	}
	if !cfg.Active {
		return
	}
	if isGroupJID(msg.RemoteJID) && !cfg.TriggerOnGroups {
		return
	}

	cfg, err = e.configs.ResetQuotaIfDue(ctx, cfg.ID, time.Now())
	if err != nil {
		logrus.WithError(err).WithField("chatbot_config_id", cfg.ID).Warn("chatbot quota rollover failed")
		return
	}
	if cfg.TokenUsageKind == domainChatbotConfig.TokenUsageBounded && cfg.CurrentTokensUsed >= cfg.TokenLimit {
		return
	}
	if cfg.AIAPIKey == "" {
		return
	}

	contact, err := e.contacts.GetOrCreate(ctx, cfg.ID, msg.RemoteJID)
	if err != nil {
		return
	}

	history := []domainMessage.Message{}
	if cfg.UseHistory {
		history, _ = e.messages.Recent(ctx, inst.ID, msg.RemoteJID, cfg.HistoryLimit)
	}

	lastOutbound := lastOutboundContent(history)
	name, cleared := resolveConfirmedName(msg.Content, lastOutbound, contact.PushName, contact.LastAskedName)
	if cleared {
		contact.PushName = ""
	} else if name != contact.PushName {
		contact.PushName = name
	}

	lang := DetectLanguage(msg.Content, history)
	system := buildSystemPrompt(cfg, lang, contact.PushName, msg.PushName)

	apiKey, err := crypto.Decrypt(cfg.AIAPIKey)
	if err != nil {
		apiKey = cfg.AIAPIKey
	}
	provider := e.providerFor(cfg.AIProvider, apiKey, cfg.AIModel)
	if provider == nil {
		return
	}

	stopTyping := e.hum.composingTicker(ctx, inst.SessionID, inst.Token, inst.ID, msg.RemoteJID)
	e.hum.readReceipts(ctx, inst.SessionID, inst.Token, msg.RemoteJID, msg.Wamid)

	turns := toTurns(history)
	raw, err := provider.Call(ctx, system, turns, msg.Content)
	stopTyping()
	if err != nil {
		logrus.WithError(err).WithField("instance_id", inst.ID).Warn("chatbot provider call failed")
		return
	}

	var decision Decision
	if err := json.Unmarshal([]byte(raw.JSON), &decision); err != nil {
		logrus.WithError(err).WithField("instance_id", inst.ID).Warn("chatbot decision unmarshal failed")
		e.sendText(ctx, inst, msg, cfg, fallbackMessage(lang), false)
		return
	}
	decision.Normalize()
	if decision.TransferURL == "" && len(decision.Messages) == 0 {
		decision.Messages = []string{fallbackMessage(lang)}
	}

	if decision.SaveName != "" && validateName(decision.SaveName) == nil {
		contact.PushName = decision.SaveName
	}
	contact.LastAskedName = botAskedForName(joinMessages(decision.Messages))
	contact.LastInteraction = time.Now()
	_, _ = e.contacts.Update(ctx, contact)

	_ = e.configs.IncrementConversation(ctx, cfg.ID)
	if raw.Usage.TotalTokens > 0 {
		_ = e.configs.IncrementTokensUsed(ctx, cfg.ID, raw.Usage.TotalTokens)
	}

	e.execute(ctx, inst, msg, cfg, decision, lang)
}

// execute runs the Decision's actions in the fixed order spec.md §4.G
// requires: save_name already applied above, then reaction
// (fire-and-forget), then transfer (terminal), then ordered message
// send with quote/delays/history persistence, then media after a
// pause.
func (e *Engine) execute(ctx context.Context, inst domainInstance.Instance, msg domainMessage.Message, cfg domainChatbotConfig.Config, d Decision, lang Language) {
	if d.ReactionEmoji != "" {
		go e.sendReaction(context.Background(), inst, msg, d.ReactionEmoji)
	}

	if d.TransferURL != "" {
		e.sendText(ctx, inst, msg, cfg, transferMessage(lang, d.TransferURL), false)
		return
	}

	for i, text := range d.Messages {
		quote := i == 0 && d.Quote
		e.sendText(ctx, inst, msg, cfg, text, quote)
		if i < len(d.DelaysMs) {
			stopTyping := e.hum.composingTicker(ctx, inst.SessionID, inst.Token, inst.ID, msg.RemoteJID)
			interMessageDelay(d.DelaysMs[i])
			stopTyping()
		}
	}

	if d.SendMediaID != "" {
		media := findMedia(cfg.Media, d.SendMediaID)
		if media != nil && media.Accessible {
			mediaPause()
			e.sendMedia(ctx, inst, msg, media)
		}
	}
}

// sendMedia self-heals and retries once on a Bridge auth-denied error,
// mirroring sendText/sendReaction.
func (e *Engine) sendMedia(ctx context.Context, inst domainInstance.Instance, msg domainMessage.Message, media *domainChatbotConfig.Media) {
	fields := map[string]string{
		"remoteJid": msg.RemoteJID,
		"type":      media.Type,
	}
	form := map[string]string{"path": media.StoragePath}

	if _, err := e.bridge.SendMedia(ctx, inst.SessionID, inst.Token, fields, nil, form); err != nil {
		healed, ok := e.selfHealOnAccessDenied(ctx, inst, err)
		if !ok {
			logrus.WithError(err).WithField("instance_id", inst.ID).Warn("chatbot send media failed")
			return
		}
		if _, err := e.bridge.SendMedia(ctx, healed.SessionID, healed.Token, fields, nil, form); err != nil {
			logrus.WithError(err).WithField("instance_id", inst.ID).Warn("chatbot send media failed after self-heal")
		}
	}
}

// sendReaction self-heals and retries once on a Bridge auth-denied
// error, mirroring dispatch.Worker.send's contract.
func (e *Engine) sendReaction(ctx context.Context, inst domainInstance.Instance, msg domainMessage.Message, emoji string) {
	payload := map[string]any{
		"remoteJid": msg.RemoteJID,
		"id":        msg.Wamid,
		"emoji":     emoji,
	}
	if _, err := e.bridge.SendReaction(ctx, inst.SessionID, inst.Token, payload); err != nil {
		healed, ok := e.selfHealOnAccessDenied(ctx, inst, err)
		if !ok {
			return
		}
		_, _ = e.bridge.SendReaction(ctx, healed.SessionID, healed.Token, payload)
	}
}

func (e *Engine) sendText(ctx context.Context, inst domainInstance.Instance, msg domainMessage.Message, cfg domainChatbotConfig.Config, text string, quote bool) {
	payload := map[string]any{
		"remoteJid": msg.RemoteJID,
		"text":      text,
	}
	if quote && msg.Wamid != "" {
		payload["quoted"] = msg.Wamid
	}

	resp, err := e.bridge.SendText(ctx, inst.SessionID, inst.Token, payload)
	if err != nil {
		healed, ok := e.selfHealOnAccessDenied(ctx, inst, err)
		if !ok {
			logrus.WithError(err).WithField("instance_id", inst.ID).Warn("chatbot send text failed")
			return
		}
		inst = healed
		resp, err = e.bridge.SendText(ctx, inst.SessionID, inst.Token, payload)
		if err != nil {
			logrus.WithError(err).WithField("instance_id", inst.ID).Warn("chatbot send text failed after self-heal")
			return
		}
	}

	var wamid struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(resp, &wamid)

	_, _ = e.messages.Create(ctx, domainMessage.Message{
		ID:         msg.ID + "-out-" + text[:min(8, len(text))],
		InstanceID: inst.ID,
		RemoteJID:  msg.RemoteJID,
		FromMe:     true,
		Type:       domainMessage.TypeText,
		Content:    text,
		Wamid:      wamid.ID,
		Timestamp:  time.Now().UTC(),
	})
}

// selfHealOnAccessDenied implements the Token Self-Heal + one-retry
// contract for Bridge auth-denied errors, spec.md §4.D/§4.G.
func (e *Engine) selfHealOnAccessDenied(ctx context.Context, inst domainInstance.Instance, err error) (domainInstance.Instance, bool) {
	var bridgeErr *bridge.Error
	if !errors.As(err, &bridgeErr) || !bridgeErr.IsAccessDenied() || e.mgr == nil {
		return domainInstance.Instance{}, false
	}
	healed, healErr := e.mgr.SelfHeal(ctx, inst.SessionID)
	if healErr != nil {
		return domainInstance.Instance{}, false
	}
	return healed, true
}

func (e *Engine) providerFor(name, apiKey, model string) providers.Provider {
	switch name {
	case "gemini":
		return providers.NewGeminiProvider(apiKey, model)
	case "openai", "":
		return providers.NewOpenAIProvider(apiKey, model)
	default:
		return nil
	}
}

func isGroupJID(jid string) bool {
	const groupSuffix = "@g.us"
	return len(jid) >= len(groupSuffix) && jid[len(jid)-len(groupSuffix):] == groupSuffix
}

func lastOutboundContent(history []domainMessage.Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].FromMe {
			return history[i].Content
		}
	}
	return ""
}

func joinMessages(msgs []string) string {
	out := ""
	for _, m := range msgs {
		out += m + " "
	}
	return out
}

func toTurns(history []domainMessage.Message) []providers.Turn {
	turns := make([]providers.Turn, 0, len(history))
	for _, m := range history {
		role := "user"
		if m.FromMe {
			role = "assistant"
		}
		turns = append(turns, providers.Turn{Role: role, Content: m.Content})
	}
	return turns
}

func findMedia(media []domainChatbotConfig.Media, id string) *domainChatbotConfig.Media {
	for i := range media {
		if media[i].ID == id {
			return &media[i]
		}
	}
	return nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
