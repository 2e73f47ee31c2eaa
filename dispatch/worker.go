package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/fillow/wap-core/core/bridge"
	domainCampaign "github.com/fillow/wap-core/domains/campaign"
	domainInstance "github.com/fillow/wap-core/domains/instance"
	"github.com/fillow/wap-core/sessionmgr"
)

// WorkerParams holds the dispatcher's tunable tick parameters.
type WorkerParams struct {
	MaxItemsPerTick int
	TickSleep       time.Duration
}

// Worker drains due QueueItems against the Bridge, pacing sends
// per-Instance via InstanceDispatchState, grounded on
// sessionmgr/reconciler.go's cron-driven outer cadence.
type Worker struct {
	campaigns  domainCampaign.Repository
	recipients domainCampaign.RecipientRepository
	queueItems domainCampaign.QueueItemRepository
	states     domainCampaign.DispatchStateRepository
	instances  domainInstance.Repository
	bridge     *bridge.Client
	mgr        *sessionmgr.Manager
	params     WorkerParams
}

// NewWorker wires the Worker's dependencies.
func NewWorker(
	campaigns domainCampaign.Repository,
	recipients domainCampaign.RecipientRepository,
	queueItems domainCampaign.QueueItemRepository,
	states domainCampaign.DispatchStateRepository,
	instances domainInstance.Repository,
	bridgeClient *bridge.Client,
	mgr *sessionmgr.Manager,
	params WorkerParams,
) *Worker {
	if params.MaxItemsPerTick <= 0 {
		params.MaxItemsPerTick = 20
	}
	if params.TickSleep <= 0 {
		params.TickSleep = 2 * time.Second
	}
	return &Worker{
		campaigns:  campaigns,
		recipients: recipients,
		queueItems: queueItems,
		states:     states,
		instances:  instances,
		bridge:     bridgeClient,
		mgr:        mgr,
		params:     params,
	}
}

// Run loops Tick until ctx is canceled, sleeping TickSleep between
// ticks — the plain-loop pacing shape spec.md's "sleep between ticks"
// worker parameter calls for.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.params.TickSleep)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := w.Tick(ctx); err != nil {
				logrus.WithError(err).Error("dispatch tick failed")
			}
		}
	}
}

// Tick runs one worker-loop pass (§4.H): claim due items, fan them out
// concurrently (distinct items are always on distinct Instances since
// ClaimDue enforces at most one claim per Instance per tick), send
// each, and update campaign counters and pacing state.
func (w *Worker) Tick(ctx context.Context) error {
	items, err := w.queueItems.ClaimDue(ctx, time.Now(), w.params.MaxItemsPerTick)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, item := range items {
		item := item
		g.Go(func() error {
			w.processItem(gctx, item)
			return nil
		})
	}
	return g.Wait()
}

func (w *Worker) processItem(ctx context.Context, item domainCampaign.QueueItem) {
	recipient, campaign, inst, ok := w.loadContext(ctx, item)
	if !ok {
		_ = w.queueItems.MarkFailed(ctx, item.ID, "campaign or recipient context missing")
		return
	}

	wamid, err := w.send(ctx, inst, recipient, item, campaign)

	delay := randomDelay(campaign.MinDelaySeconds, campaign.MaxDelaySeconds)
	_ = w.states.SetNextAvailableAt(ctx, inst.ID, time.Now().Add(delay))

	if err != nil {
		logrus.WithError(err).WithField("queue_item_id", item.ID).Warn("dispatch send failed")
		_ = w.queueItems.MarkFailed(ctx, item.ID, err.Error())
		_ = w.campaigns.IncrementCounters(ctx, campaign.ID, 0, 1)
		w.maybeComplete(ctx, campaign.ID)
		return
	}

	_ = w.queueItems.MarkSent(ctx, item.ID, wamid)
	_ = w.campaigns.IncrementCounters(ctx, campaign.ID, 1, 0)
	w.maybeComplete(ctx, campaign.ID)
}

func (w *Worker) loadContext(ctx context.Context, item domainCampaign.QueueItem) (domainCampaign.Recipient, domainCampaign.Campaign, domainInstance.Instance, bool) {
	campaign, err := w.campaigns.GetByID(ctx, item.CampaignID)
	if err != nil {
		return domainCampaign.Recipient{}, domainCampaign.Campaign{}, domainInstance.Instance{}, false
	}
	inst, err := w.instances.GetByID(ctx, campaign.InstanceID)
	if err != nil {
		return domainCampaign.Recipient{}, domainCampaign.Campaign{}, domainInstance.Instance{}, false
	}
	recipients, err := w.recipients.ListByCampaign(ctx, campaign.ID)
	if err != nil {
		return domainCampaign.Recipient{}, domainCampaign.Campaign{}, domainInstance.Instance{}, false
	}
	for _, r := range recipients {
		if r.ID == item.RecipientID {
			return r, campaign, inst, true
		}
	}
	return domainCampaign.Recipient{}, campaign, inst, false
}

// send issues the Bridge call for one QueueItem, self-healing the
// instance token once and retrying on the Bridge's "ACESSO NEGADO"
// marker, matching the Token Self-Heal contract sessionmgr.Manager
// already implements for the reconciler.
func (w *Worker) send(ctx context.Context, inst domainInstance.Instance, recipient domainCampaign.Recipient, item domainCampaign.QueueItem, campaign domainCampaign.Campaign) (string, error) {
	wamid, err := w.sendOnce(ctx, inst, recipient, item)
	if err == nil {
		return wamid, nil
	}

	var bridgeErr *bridge.Error
	if !errors.As(err, &bridgeErr) || !bridgeErr.IsAccessDenied() || w.mgr == nil {
		return "", err
	}

	healed, healErr := w.mgr.SelfHeal(ctx, inst.SessionID)
	if healErr != nil {
		return "", err
	}
	return w.sendOnce(ctx, healed, recipient, item)
}

func (w *Worker) sendOnce(ctx context.Context, inst domainInstance.Instance, recipient domainCampaign.Recipient, item domainCampaign.QueueItem) (string, error) {
	var resp struct {
		ID string `json:"id"`
	}

	if item.MediaID != "" {
		raw, err := w.bridge.SendMedia(ctx, inst.SessionID, inst.Token, map[string]string{
			"remoteJid": recipient.JID,
			"caption":   item.RenderedBody,
		}, nil, map[string]string{"id": item.MediaID})
		if err != nil {
			return "", err
		}
		_ = decodeInto(raw, &resp)
		return resp.ID, nil
	}

	raw, err := w.bridge.SendText(ctx, inst.SessionID, inst.Token, map[string]any{
		"remoteJid": recipient.JID,
		"text":      item.RenderedBody,
	})
	if err != nil {
		return "", err
	}
	_ = decodeInto(raw, &resp)
	return resp.ID, nil
}

func (w *Worker) maybeComplete(ctx context.Context, campaignID string) {
	campaign, err := w.campaigns.GetByID(ctx, campaignID)
	if err != nil {
		return
	}
	if campaign.Status != domainCampaign.StatusRunning {
		return
	}
	if campaign.Terminal(0) {
		campaign.Status = domainCampaign.StatusCompleted
		_, _ = w.campaigns.Update(ctx, campaign)
	}
}

func decodeInto(raw json.RawMessage, v any) error {
	return json.Unmarshal(raw, v)
}

// randomDelay draws a uniform pacing delay in [min, max] seconds.
func randomDelay(minSeconds, maxSeconds int) time.Duration {
	if maxSeconds <= minSeconds {
		return time.Duration(minSeconds) * time.Second
	}
	return time.Duration(minSeconds+rand.Intn(maxSeconds-minSeconds+1)) * time.Second
}
