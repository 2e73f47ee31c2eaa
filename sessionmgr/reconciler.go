package sessionmgr

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	domainInstance "github.com/fillow/wap-core/domains/instance"
)

// ReconcilerParams holds the reconciler's tunable parameters.
type ReconcilerParams struct {
	CycleInterval    time.Duration
	PerInstancePause time.Duration
	StartIfMissing   bool
	StaleThreshold   time.Duration
	MaxPerCycle      int
}

// Reconciler sweeps Instances against the Bridge's session list to
// heal status drift ("zombie detection"). The outer cadence is driven
// by robfig/cron; the per-instance sweep inside one cycle reuses the
// teacher's plain for + time.Sleep pacing pattern.
type Reconciler struct {
	mgr    *Manager
	repo   domainInstance.Repository
	params ReconcilerParams
}

func NewReconciler(mgr *Manager, repo domainInstance.Repository, params ReconcilerParams) *Reconciler {
	return &Reconciler{mgr: mgr, repo: repo, params: params}
}

// Run starts a cron-scheduled loop that runs Sweep every CycleInterval
// until ctx is canceled.
func (r *Reconciler) Run(ctx context.Context) error {
	c := cron.New(cron.WithSeconds())
	spec := "@every " + r.params.CycleInterval.String()
	_, err := c.AddFunc(spec, func() {
		if err := r.Sweep(ctx); err != nil {
			log.WithError(err).Error("reconciliation sweep failed")
		}
	})
	if err != nil {
		return err
	}
	c.Start()
	<-ctx.Done()
	stopCtx := c.Stop()
	<-stopCtx.Done()
	return nil
}

// Sweep performs a single reconciliation cycle.
func (r *Reconciler) Sweep(ctx context.Context) error {
	var instances []domainInstance.Instance
	var err error
	if r.params.StaleThreshold > 0 {
		instances, err = r.repo.ListStale(ctx, time.Now().Add(-r.params.StaleThreshold))
	} else {
		instances, err = r.repo.ListAll(ctx)
	}
	if err != nil {
		return err
	}

	remote, err := r.mgr.bridge.ListSessions(ctx)
	if err != nil {
		return err
	}
	bySessionID := make(map[string]bridgeSessionSummary, len(remote))
	for _, e := range remote {
		bySessionID[e.SessionID] = bridgeSessionSummary{status: e.Status, token: e.Token, phone: e.PhoneNumber}
	}

	processed := 0
	for _, inst := range instances {
		if r.params.MaxPerCycle > 0 && processed >= r.params.MaxPerCycle {
			break
		}
		processed++

		r.reconcileOne(ctx, inst, bySessionID)

		if r.params.PerInstancePause > 0 {
			time.Sleep(r.params.PerInstancePause)
		}
	}
	return nil
}

type bridgeSessionSummary struct {
	status string
	token  string
	phone  string
}

func (r *Reconciler) reconcileOne(ctx context.Context, inst domainInstance.Instance, remote map[string]bridgeSessionSummary) {
	entry, present := remote[inst.SessionID]

	if present {
		status := domainInstance.StatusFromBridge(entry.status)
		token := inst.Token
		if entry.token != "" && entry.token != inst.Token {
			token = entry.token
		}
		phone := inst.PhoneConnected
		if entry.phone != "" {
			phone = entry.phone
		}
		if status != inst.Status || token != inst.Token || phone != inst.PhoneConnected {
			if err := r.repo.CompareAndSetStatus(ctx, inst.SessionID, status, token, phone); err != nil {
				log.WithError(err).WithField("session_id", inst.SessionID).Error("failed to update instance during reconciliation")
			}
		}
		return
	}

	// Absent remotely: zombie detection.
	switch inst.Status {
	case domainInstance.StatusConnected:
		if err := r.repo.CompareAndSetStatus(ctx, inst.SessionID, domainInstance.StatusDisconnected, "", ""); err != nil {
			log.WithError(err).WithField("session_id", inst.SessionID).Error("failed to mark zombie instance disconnected")
		}
	case domainInstance.StatusQRScanned:
		if err := r.repo.CompareAndSetStatus(ctx, inst.SessionID, domainInstance.StatusDisconnected, inst.Token, inst.PhoneConnected); err != nil {
			log.WithError(err).WithField("session_id", inst.SessionID).Error("failed to mark instance disconnected")
		}
	}

	if r.params.StartIfMissing && (inst.Status == domainInstance.StatusCreated || inst.Status == domainInstance.StatusDisconnected) {
		if err := r.mgr.Start(ctx, inst); err != nil {
			log.WithError(err).WithField("session_id", inst.SessionID).Warn("failed to restart missing session")
		}
	}
}
