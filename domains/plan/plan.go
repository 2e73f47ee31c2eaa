package plan

import (
	"context"
	"time"
)

type DurationKind string

const (
	DurationDays     DurationKind = "days"
	DurationMonths   DurationKind = "months"
	DurationYears    DurationKind = "years"
	DurationLifetime DurationKind = "lifetime"
)

// Periodicity governs quota-counter rollover on a ChatbotConfig.
type Periodicity string

const (
	PeriodicityDaily      Periodicity = "daily"
	PeriodicityMonthly    Periodicity = "monthly"
	PeriodicityQuarterly  Periodicity = "quarterly"
	PeriodicitySemiannual Periodicity = "semiannual"
	PeriodicityYearly     Periodicity = "yearly"
	PeriodicityLifetime   Periodicity = "lifetime"
)

type Plan struct {
	ID                 string       `json:"id"`
	Name               string       `json:"name"`
	MaxInstances        int          `json:"max_instances"`
	MaxChatbots         int          `json:"max_chatbots"`
	MonthlyConversations int         `json:"monthly_conversations"`
	DurationKind       DurationKind `json:"duration_kind"`
	DurationValue      int          `json:"duration_value"`
	Periodicity        Periodicity  `json:"periodicity"`
}

// Window computes the (start, end) of a plan assignment made at `now`.
// end is nil for a lifetime plan.
func (p Plan) Window(now time.Time) (start time.Time, end *time.Time) {
	start = now
	if p.DurationKind == DurationLifetime {
		return start, nil
	}
	var e time.Time
	switch p.DurationKind {
	case DurationDays:
		e = now.AddDate(0, 0, p.DurationValue)
	case DurationMonths:
		e = now.AddDate(0, p.DurationValue, 0)
	case DurationYears:
		e = now.AddDate(p.DurationValue, 0, 0)
	default:
		e = now
	}
	return start, &e
}

type Repository interface {
	Create(ctx context.Context, p Plan) (Plan, error)
	GetByID(ctx context.Context, id string) (Plan, error)
	List(ctx context.Context) ([]Plan, error)
	Update(ctx context.Context, p Plan) (Plan, error)
	Delete(ctx context.Context, id string) error
}
