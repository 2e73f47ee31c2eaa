package chatbot

import (
	"context"
	"math/rand"
	"time"

	"github.com/fillow/wap-core/config"
	"github.com/fillow/wap-core/core/bridge"
	"github.com/fillow/wap-core/pkg/chatpresence"
)

// humanizer owns the read-receipt preamble and the composing-presence
// keepalive ticker, grounded on botengine/humanizer.go and
// botengine/infrastructure/humanizer.go's SimulateTypingWithProfile
// shape, narrowed to spec.md's fixed timing windows instead of the
// teacher's configurable per-bot typing profiles.
type humanizer struct {
	bridge *bridge.Client
}

func newHumanizer(b *bridge.Client) *humanizer {
	return &humanizer{bridge: b}
}

func randomDuration(minMs, maxMs int) time.Duration {
	if maxMs <= minMs {
		return time.Duration(minMs) * time.Millisecond
	}
	return time.Duration(minMs+rand.Intn(maxMs-minMs+1)) * time.Millisecond
}

// readReceipts runs the always-run preamble: a humanized delay, then
// (if a message key is known) mark the specific message read, then
// always mark the chat as read.
func (h *humanizer) readReceipts(ctx context.Context, sessionID, token, remoteJID, wamid string) {
	time.Sleep(randomDuration(config.ChatbotReadReceiptDelayMinMs, config.ChatbotReadReceiptDelayMaxMs))

	if wamid != "" {
		_, _ = h.bridge.MarkMessageRead(ctx, sessionID, token, map[string]any{
			"remoteJid": remoteJID,
			"id":        wamid,
		})
	}
	_, _ = h.bridge.MarkChatRead(ctx, sessionID, token, map[string]string{"jid": remoteJID})
}

// composingTicker starts a goroutine that re-posts presence=composing
// every ChatbotComposingTickInterval until stop() is called, at which
// point it posts presence=paused once. Mirrors the teacher's presence
// simulator goroutines in botengine/engine.go.
func (h *humanizer) composingTicker(ctx context.Context, sessionID, token, instanceID, remoteJID string) (stop func()) {
	tickerCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	chatpresence.Update(instanceID, remoteJID, true, chatpresence.MediaText)
	_, _ = h.bridge.SetPresence(ctx, sessionID, token, remoteJID, "composing")

	go func() {
		defer close(done)
		ticker := time.NewTicker(config.ChatbotComposingTickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-tickerCtx.Done():
				return
			case <-ticker.C:
				_, _ = h.bridge.SetPresence(context.Background(), sessionID, token, remoteJID, "composing")
			}
		}
	}()

	return func() {
		cancel()
		<-done
		chatpresence.Update(instanceID, remoteJID, false, chatpresence.MediaText)
		_, _ = h.bridge.SetPresence(context.Background(), sessionID, token, remoteJID, "paused")
	}
}

// interMessageDelay sleeps delayMs while keeping the composing ticker
// alive (the caller owns the ticker; this just sleeps).
func interMessageDelay(delayMs int) {
	time.Sleep(time.Duration(delayMs) * time.Millisecond)
}

// mediaPause sleeps the fixed [200,800]ms pause before sending a
// referenced media file.
func mediaPause() {
	time.Sleep(randomDuration(config.ChatbotMediaPauseMinMs, config.ChatbotMediaPauseMaxMs))
}
