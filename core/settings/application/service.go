package application

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/fillow/wap-core/core/settings/domain"
	"github.com/fillow/wap-core/core/settings/infrastructure"
	"gorm.io/gorm"
)

// SettingsService stores and reads operator-tunable Chatbot/Reconciler/
// Dispatch override values in the global_settings table. It does not
// apply them: config's process-start values are left unchanged.
type SettingsService struct {
	repo domain.ISettingsRepository
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{
		repo: infrastructure.NewGlobalSettingsGormRepository(db),
	}
}

type DynamicSettings struct {
	ChatbotDefaultTemperature *float64
	ChatbotMaxOutputTokens    *int
	ChatbotReadDelayMinMs     *int
	ChatbotReadDelayMaxMs     *int
	ChatbotInterMsgDelayMinMs *int
	ChatbotInterMsgDelayMaxMs *int
	ReconcileCycleInterval    string
	ReconcileStartIfMissing   *bool
	DispatchMaxItemsPerTick   *int
}

func (s *SettingsService) GetDynamicSettings(ctx context.Context) (*DynamicSettings, error) {
	if err := s.repo.InitSchema(ctx); err != nil {
		return nil, err
	}

	ds := &DynamicSettings{}

	if val, _ := s.repo.Get(ctx, domain.KeyChatbotDefaultTemperature); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			ds.ChatbotDefaultTemperature = &f
		}
	}
	if val, _ := s.repo.Get(ctx, domain.KeyChatbotMaxOutputTokens); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			ds.ChatbotMaxOutputTokens = &n
		}
	}
	if val, _ := s.repo.Get(ctx, domain.KeyChatbotReadDelayMinMs); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n >= 0 {
			ds.ChatbotReadDelayMinMs = &n
		}
	}
	if val, _ := s.repo.Get(ctx, domain.KeyChatbotReadDelayMaxMs); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n >= 0 {
			ds.ChatbotReadDelayMaxMs = &n
		}
	}
	if val, _ := s.repo.Get(ctx, domain.KeyChatbotInterMsgDelayMinMs); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n >= 0 {
			ds.ChatbotInterMsgDelayMinMs = &n
		}
	}
	if val, _ := s.repo.Get(ctx, domain.KeyChatbotInterMsgDelayMaxMs); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n >= 0 {
			ds.ChatbotInterMsgDelayMaxMs = &n
		}
	}
	if val, _ := s.repo.Get(ctx, domain.KeyReconcileCycleInterval); val != "" {
		ds.ReconcileCycleInterval = val
	}
	if val, _ := s.repo.Get(ctx, domain.KeyReconcileStartIfMissing); val != "" {
		vLower := strings.ToLower(val)
		isOn := vLower == "1" || vLower == "true" || vLower == "yes" || vLower == "on"
		ds.ReconcileStartIfMissing = &isOn
	}
	if val, _ := s.repo.Get(ctx, domain.KeyDispatchMaxItemsPerTick); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			ds.DispatchMaxItemsPerTick = &n
		}
	}
	return ds, nil
}

func (s *SettingsService) SetChatbotTemperature(ctx context.Context, v float64) error {
	return s.repo.Set(ctx, domain.KeyChatbotDefaultTemperature, strconv.FormatFloat(v, 'f', -1, 64))
}

func (s *SettingsService) SetChatbotMaxOutputTokens(ctx context.Context, v int) error {
	if v < 1 {
		v = 1
	}
	return s.repo.Set(ctx, domain.KeyChatbotMaxOutputTokens, fmt.Sprintf("%d", v))
}

func (s *SettingsService) SetChatbotReadDelayWindow(ctx context.Context, minMs, maxMs int) error {
	if err := s.repo.Set(ctx, domain.KeyChatbotReadDelayMinMs, fmt.Sprintf("%d", minMs)); err != nil {
		return err
	}
	return s.repo.Set(ctx, domain.KeyChatbotReadDelayMaxMs, fmt.Sprintf("%d", maxMs))
}

func (s *SettingsService) SetChatbotInterMessageDelayWindow(ctx context.Context, minMs, maxMs int) error {
	if err := s.repo.Set(ctx, domain.KeyChatbotInterMsgDelayMinMs, fmt.Sprintf("%d", minMs)); err != nil {
		return err
	}
	return s.repo.Set(ctx, domain.KeyChatbotInterMsgDelayMaxMs, fmt.Sprintf("%d", maxMs))
}

func (s *SettingsService) SetReconcileCycleInterval(ctx context.Context, v string) error {
	return s.repo.Set(ctx, domain.KeyReconcileCycleInterval, strings.TrimSpace(v))
}

func (s *SettingsService) SetReconcileStartIfMissing(ctx context.Context, v bool) error {
	val := "0"
	if v {
		val = "1"
	}
	return s.repo.Set(ctx, domain.KeyReconcileStartIfMissing, val)
}

func (s *SettingsService) SetDispatchMaxItemsPerTick(ctx context.Context, v int) error {
	if v < 1 {
		v = 1
	}
	return s.repo.Set(ctx, domain.KeyDispatchMaxItemsPerTick, fmt.Sprintf("%d", v))
}
