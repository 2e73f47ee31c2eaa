package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fillow/wap-core/core/bridge"
	domainInstance "github.com/fillow/wap-core/domains/instance"
	domainTenant "github.com/fillow/wap-core/domains/tenant"
	domainWebhook "github.com/fillow/wap-core/domains/webhook"
	pkgError "github.com/fillow/wap-core/pkg/error"
)

// InstanceService implementa domains/instance.IInstanceUsecase: crea la
// Instance y su WebhookConfig en par, respetando el límite de plan del
// Tenant, y elimina la sesión remota en el Bridge de forma best-effort
// antes de borrar la fila local.
type InstanceService struct {
	instances domainInstance.Repository
	tenants   domainTenant.Repository
	webhooks  domainWebhook.Repository
	bridge    *bridge.Client
	identity  *IdentityService
}

func NewInstanceService(
	instances domainInstance.Repository,
	tenants domainTenant.Repository,
	webhooks domainWebhook.Repository,
	bridgeClient *bridge.Client,
	identity *IdentityService,
) *InstanceService {
	return &InstanceService{
		instances: instances,
		tenants:   tenants,
		webhooks:  webhooks,
		bridge:    bridgeClient,
		identity:  identity,
	}
}

// newSessionID genera un session_id con el formato sess_<16 hex>.
func newSessionID() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "sess_" + hex.EncodeToString(buf), nil
}

// newWebhookSecret genera el secreto de una sola vez para el
// WebhookConfig de una Instance recién creada.
func newWebhookSecret() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// Create valida el plan del Tenant, crea la fila local de Instance en
// estado CREATED con su WebhookConfig asociado, y pide al Bridge que
// arranque la sesión remota.
func (s *InstanceService) Create(ctx context.Context, ownerTenantID string, request domainInstance.CreateInstanceRequest) (domainInstance.Instance, error) {
	t, err := s.tenants.GetByID(ctx, ownerTenantID)
	if err != nil {
		return domainInstance.Instance{}, err
	}

	canCreate, err := s.identity.CanCreateInstance(ctx, t)
	if err != nil {
		return domainInstance.Instance{}, err
	}
	if !canCreate {
		return domainInstance.Instance{}, pkgError.PlanDeniedError("plan instance limit reached or plan not valid")
	}

	sessionID, err := newSessionID()
	if err != nil {
		return domainInstance.Instance{}, pkgError.InternalServerError{Cause: err}
	}

	now := time.Now().UTC()
	inst := domainInstance.Instance{
		ID:            uuid.NewString(),
		OwnerTenantID: ownerTenantID,
		Name:          request.Name,
		SessionID:     sessionID,
		Status:        domainInstance.StatusCreated,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	inst, err = s.instances.Create(ctx, inst)
	if err != nil {
		return domainInstance.Instance{}, err
	}

	secret, err := newWebhookSecret()
	if err != nil {
		return domainInstance.Instance{}, pkgError.InternalServerError{Cause: err}
	}
	if _, err := s.webhooks.Create(ctx, domainWebhook.Config{
		ID:         uuid.NewString(),
		InstanceID: inst.ID,
		Secret:     secret,
	}); err != nil {
		return domainInstance.Instance{}, err
	}

	if _, err := s.bridge.StartSession(ctx, sessionID); err != nil {
		logrus.WithField("session_id", sessionID).WithError(err).Warn("failed to start bridge session for new instance")
	}

	return inst, nil
}

func (s *InstanceService) List(ctx context.Context, ownerTenantID string) ([]domainInstance.Instance, error) {
	return s.instances.List(ctx, ownerTenantID)
}

func (s *InstanceService) GetByID(ctx context.Context, id string) (domainInstance.Instance, error) {
	return s.instances.GetByID(ctx, id)
}

func (s *InstanceService) GetByToken(ctx context.Context, token string) (domainInstance.Instance, error) {
	return s.instances.GetByToken(ctx, token)
}

// Delete borra la sesión remota en el Bridge de forma best-effort y
// luego elimina la fila local; el fallo remoto nunca bloquea la
// eliminación local.
func (s *InstanceService) Delete(ctx context.Context, id string) error {
	inst, err := s.instances.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if _, err := s.bridge.DeleteSession(ctx, inst.SessionID); err != nil {
		logrus.WithField("session_id", inst.SessionID).WithError(err).Warn("bridge session delete failed, proceeding with local removal")
	}

	_ = s.webhooks.Delete(ctx, inst.ID)
	return s.instances.Delete(ctx, id)
}
