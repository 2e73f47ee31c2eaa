package instance

import (
	"context"
	"time"
)

type Status string

const (
	StatusCreated      Status = "CREATED"
	StatusQRScanned    Status = "QR_SCANNED"
	StatusConnected    Status = "CONNECTED"
	StatusDisconnected Status = "DISCONNECTED"
	StatusBan          Status = "BAN"
)

// Instance is a logical WhatsApp session, 1:1 with a Bridge session.
type Instance struct {
	ID            string `json:"id"`
	OwnerTenantID string `json:"owner_tenant_id"`
	Name          string `json:"name"`
	SessionID     string `json:"session_id"`
	Token         string `json:"token,omitempty"`
	PhoneConnected string `json:"phone_connected,omitempty"`
	Status        Status `json:"status"`

	BatteryPercent int    `json:"battery_percent,omitempty"`
	Platform       string `json:"platform,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StatusFromBridge normalizes a Bridge-reported status string:
// open -> CONNECTED, close -> DISCONNECTED, else passthrough.
func StatusFromBridge(remote string) Status {
	switch remote {
	case "open":
		return StatusConnected
	case "close":
		return StatusDisconnected
	default:
		return Status(remote)
	}
}

type CreateInstanceRequest struct {
	Name string `json:"name" form:"name"`
}

type Repository interface {
	Create(ctx context.Context, i Instance) (Instance, error)
	List(ctx context.Context, ownerTenantID string) ([]Instance, error)
	ListAll(ctx context.Context) ([]Instance, error)
	ListStale(ctx context.Context, olderThan time.Time) ([]Instance, error)
	GetByID(ctx context.Context, id string) (Instance, error)
	GetBySessionID(ctx context.Context, sessionID string) (Instance, error)
	GetByToken(ctx context.Context, token string) (Instance, error)
	Update(ctx context.Context, i Instance) (Instance, error)
	// CompareAndSetStatus applies a field-scoped status/token/phone
	// update keyed on session_id.
	CompareAndSetStatus(ctx context.Context, sessionID string, status Status, token, phoneConnected string) error
	Delete(ctx context.Context, id string) error
}

type IInstanceUsecase interface {
	Create(ctx context.Context, ownerTenantID string, request CreateInstanceRequest) (Instance, error)
	List(ctx context.Context, ownerTenantID string) ([]Instance, error)
	GetByID(ctx context.Context, id string) (Instance, error)
	GetByToken(ctx context.Context, token string) (Instance, error)
	Delete(ctx context.Context, id string) error
}
