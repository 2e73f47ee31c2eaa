// Package sessionmgr drives an Instance through its Bridge-backed
// status lifecycle: start, QR wait, polling, and token self-heal.
// Grounded on usecase/instance.go's status derivation and
// workspace/application/session_orchestrator.go's orchestration shape.
package sessionmgr

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fillow/wap-core/core/bridge"
	domainInstance "github.com/fillow/wap-core/domains/instance"
	pkgError "github.com/fillow/wap-core/pkg/error"
)

var log = logrus.WithField("component", "SESSIONMGR")

type Manager struct {
	instances domainInstance.Repository
	bridge    *bridge.Client
}

func New(instances domainInstance.Repository, bridgeClient *bridge.Client) *Manager {
	return &Manager{instances: instances, bridge: bridgeClient}
}

// Start asks the Bridge to spawn a session for the given Instance.
func (m *Manager) Start(ctx context.Context, i domainInstance.Instance) error {
	_, err := m.bridge.StartSession(ctx, i.SessionID)
	return err
}

type qrPayload struct {
	Status string `json:"status"`
	QR     string `json:"qr"`
	QRCode string `json:"qrCode"`
}

// WaitForQR polls the Bridge QR endpoint and returns the first response
// for which status=CONNECTED or a QR image is present.
// Returns the last observed payload on timeout.
func (m *Manager) WaitForQR(ctx context.Context, sessionID string, deadline time.Duration, interval time.Duration) (json.RawMessage, error) {
	if deadline == 0 {
		deadline = 45 * time.Second
	}
	if interval == 0 {
		interval = 1500 * time.Millisecond
	}

	ctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last json.RawMessage
	for {
		raw, err := m.bridge.GetQR(ctx, sessionID)
		if err == nil {
			last = raw
			var p qrPayload
			if err := json.Unmarshal(raw, &p); err == nil {
				qr := p.QR
				if qr == "" {
					qr = p.QRCode
				}
				if domainInstance.StatusFromBridge(p.Status) == domainInstance.StatusConnected || qr != "" {
					return raw, nil
				}
			}
		}

		select {
		case <-ctx.Done():
			return last, nil
		case <-ticker.C:
		}
	}
}

// SelfHeal implements Token Self-Heal: GET /sessions
// (admin mode), find the entry for this session_id, persist token,
// status, and phone_connected atomically if any differ. Invariant:
// after SelfHeal returns nil, instance.token equals the Bridge's
// current token for session_id.
func (m *Manager) SelfHeal(ctx context.Context, sessionID string) (domainInstance.Instance, error) {
	entries, err := m.bridge.ListSessions(ctx)
	if err != nil {
		return domainInstance.Instance{}, pkgError.NodeConnectionError(fmt.Sprintf("self-heal: bridge unreachable: %v", err))
	}

	for _, e := range entries {
		if e.SessionID != sessionID {
			continue
		}
		status := domainInstance.StatusFromBridge(e.Status)
		phone := e.PhoneNumber
		if err := m.instances.CompareAndSetStatus(ctx, sessionID, status, e.Token, phone); err != nil {
			return domainInstance.Instance{}, err
		}
		log.WithField("session_id", sessionID).Info("token self-healed")
		return m.instances.GetBySessionID(ctx, sessionID)
	}
	return domainInstance.Instance{}, pkgError.NotFoundError(fmt.Sprintf("session %s not found on bridge", sessionID))
}
