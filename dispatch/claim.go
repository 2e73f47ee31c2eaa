package dispatch

import (
	"context"
	"errors"
	"sync"
	"time"

	domainCampaign "github.com/fillow/wap-core/domains/campaign"
)

var errNotFound = errors.New("dispatch: queue item not found")

// fakeQueueItemRepository is an in-memory double for
// domains/campaign.QueueItemRepository, used by this package's
// ClaimDue tests to exercise the single-claim QUEUED->SENDING transition
// without a real database. ClaimDue mirrors the production gorm
// repository's conditional-update-plus-affected-check pattern with an
// explicit mutex instead of a row lock.
type fakeQueueItemRepository struct {
	mu    sync.Mutex
	items map[string]domainCampaign.QueueItem
}

func newFakeQueueItemRepository(items []domainCampaign.QueueItem) *fakeQueueItemRepository {
	byID := make(map[string]domainCampaign.QueueItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	return &fakeQueueItemRepository{items: byID}
}

func (f *fakeQueueItemRepository) BulkCreate(ctx context.Context, items []domainCampaign.QueueItem) ([]domainCampaign.QueueItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range items {
		f.items[it.ID] = it
	}
	return items, nil
}

// ClaimDue claims up to maxItems QUEUED items whose ScheduledAt has
// arrived, each via an individual CAS on status — the same
// single-claim guarantee the gorm repository gives via `RowsAffected`.
func (f *fakeQueueItemRepository) ClaimDue(ctx context.Context, now time.Time, maxItems int) ([]domainCampaign.QueueItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var claimed []domainCampaign.QueueItem
	for id, it := range f.items {
		if len(claimed) >= maxItems {
			break
		}
		if it.Status != domainCampaign.QueueItemQueued || it.ScheduledAt.After(now) {
			continue
		}
		it.Status = domainCampaign.QueueItemSending
		it.Attempts++
		f.items[id] = it
		claimed = append(claimed, it)
	}
	return claimed, nil
}

func (f *fakeQueueItemRepository) MarkSent(ctx context.Context, id, wamid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	it := f.items[id]
	it.Status = domainCampaign.QueueItemSent
	it.Wamid = wamid
	f.items[id] = it
	return nil
}

func (f *fakeQueueItemRepository) MarkFailed(ctx context.Context, id, errMsg string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	it := f.items[id]
	it.Status = domainCampaign.QueueItemFailed
	it.Error = errMsg
	f.items[id] = it
	return nil
}

func (f *fakeQueueItemRepository) GetByWamid(ctx context.Context, wamid string) (domainCampaign.QueueItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range f.items {
		if it.Wamid == wamid {
			return it, nil
		}
	}
	return domainCampaign.QueueItem{}, errNotFound
}

func (f *fakeQueueItemRepository) AdvanceAckStatus(ctx context.Context, id string, next domainCampaign.QueueItemStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[id]
	if !ok {
		return errNotFound
	}
	if !domainCampaign.AdvanceAck(it.Status, next) {
		return nil
	}
	it.Status = next
	f.items[id] = it
	return nil
}
