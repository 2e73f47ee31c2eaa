// Package chatpresence tracks which (instance, remote_jid) pairs the
// Chatbot Engine currently has a composing-presence ticker running
// against, so a concurrent task or monitoring endpoint can tell
// whether a reply sequence is mid-flight.
package chatpresence

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Media mirrors the Bridge's "presence media" kind: composing plain
// text renders differently from recording voice.
type Media string

const (
	MediaText  Media = "text"
	MediaAudio Media = "audio"
)

type entry struct {
	composing bool
	media     Media
	updatedAt time.Time
}

const staleAfter = 12 * time.Second

var (
	mu    sync.Mutex
	store = map[string]entry{}
)

func key(instanceID, chatJID string) string {
	return instanceID + "|" + chatJID
}

// Update records that instanceID/chatJID is (or is no longer) composing.
func Update(instanceID, chatJID string, composing bool, media Media) {
	instanceID = strings.TrimSpace(instanceID)
	chatJID = strings.TrimSpace(chatJID)
	if instanceID == "" || chatJID == "" {
		return
	}

	mu.Lock()
	store[key(instanceID, chatJID)] = entry{
		composing: composing,
		media:     media,
		updatedAt: time.Now(),
	}
	mu.Unlock()
}

func IsComposing(instanceID, chatJID string) bool {
	instanceID = strings.TrimSpace(instanceID)
	chatJID = strings.TrimSpace(chatJID)
	if instanceID == "" || chatJID == "" {
		return false
	}

	mu.Lock()
	e, ok := store[key(instanceID, chatJID)]
	if !ok {
		mu.Unlock()
		return false
	}
	if time.Since(e.updatedAt) > staleAfter {
		delete(store, key(instanceID, chatJID))
		mu.Unlock()
		return false
	}
	res := e.composing
	mu.Unlock()
	return res
}

func GetMedia(instanceID, chatJID string) Media {
	instanceID = strings.TrimSpace(instanceID)
	chatJID = strings.TrimSpace(chatJID)
	if instanceID == "" || chatJID == "" {
		return MediaText
	}

	mu.Lock()
	e, ok := store[key(instanceID, chatJID)]
	if !ok || time.Since(e.updatedAt) > staleAfter {
		if ok {
			delete(store, key(instanceID, chatJID))
		}
		mu.Unlock()
		return MediaText
	}
	m := e.media
	mu.Unlock()
	return m
}

// GetActiveTyping returns the (instanceID, chatJID) pairs currently
// marked composing, for the monitoring endpoint.
func GetActiveTyping() []string {
	mu.Lock()
	defer mu.Unlock()

	now := time.Now()
	active := make([]string, 0, len(store))
	for k, e := range store {
		if e.composing && now.Sub(e.updatedAt) <= staleAfter {
			active = append(active, k)
		}
	}
	return active
}

// WaitIdle blocks until instanceID/chatJID is no longer composing, ctx
// is canceled, or timeout elapses, returning false on cancellation or
// timeout. The Chatbot Engine does not call it.
func WaitIdle(ctx context.Context, instanceID, chatJID string, timeout time.Duration) bool {
	if timeout <= 0 {
		return true
	}
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	poll := time.NewTicker(250 * time.Millisecond)
	defer poll.Stop()

	for {
		if !IsComposing(instanceID, chatJID) {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-deadline.C:
			return false
		case <-poll.C:
		}
	}
}
