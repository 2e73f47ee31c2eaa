package dispatch

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	domainCampaign "github.com/fillow/wap-core/domains/campaign"
)

func TestClaimDueNeverDoubleClaims(t *testing.T) {
	now := time.Now()
	items := make([]domainCampaign.QueueItem, 20)
	for i := range items {
		items[i] = domainCampaign.QueueItem{
			ID:          string(rune('a' + i)),
			Status:      domainCampaign.QueueItemQueued,
			ScheduledAt: now.Add(-time.Minute),
		}
	}
	repo := newFakeQueueItemRepository(items)

	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := map[string]int{}

	for w := 0; w < 5; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			claimed, err := repo.ClaimDue(context.Background(), now, 20)
			assert.NoError(t, err)
			mu.Lock()
			for _, it := range claimed {
				seen[it.ID]++
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	total := 0
	for id, count := range seen {
		assert.Equal(t, 1, count, "item %s claimed more than once", id)
		total += count
	}
	assert.Equal(t, len(items), total, "every item should be claimed exactly once")
}

func TestClaimDueRespectsMaxItems(t *testing.T) {
	now := time.Now()
	items := make([]domainCampaign.QueueItem, 10)
	for i := range items {
		items[i] = domainCampaign.QueueItem{
			ID:          string(rune('a' + i)),
			Status:      domainCampaign.QueueItemQueued,
			ScheduledAt: now.Add(-time.Minute),
		}
	}
	repo := newFakeQueueItemRepository(items)

	claimed, err := repo.ClaimDue(context.Background(), now, 3)
	assert.NoError(t, err)
	assert.Len(t, claimed, 3)
}

func TestClaimDueSkipsNotYetScheduled(t *testing.T) {
	now := time.Now()
	repo := newFakeQueueItemRepository([]domainCampaign.QueueItem{
		{ID: "future", Status: domainCampaign.QueueItemQueued, ScheduledAt: now.Add(time.Hour)},
		{ID: "due", Status: domainCampaign.QueueItemQueued, ScheduledAt: now.Add(-time.Hour)},
	})

	claimed, err := repo.ClaimDue(context.Background(), now, 10)
	assert.NoError(t, err)
	assert.Len(t, claimed, 1)
	assert.Equal(t, "due", claimed[0].ID)
}
