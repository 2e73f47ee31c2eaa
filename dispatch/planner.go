// Package dispatch implements the Dispatch (Broadcast) Queue: Campaign
// planning and the paced worker loop that drains CampaignQueueItems
// against the Bridge, grounded on the teacher's reconciliation loop
// shape (sessionmgr/reconciler.go) and spec.md §4.H.
package dispatch

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	domainCampaign "github.com/fillow/wap-core/domains/campaign"
)

var nonDigits = regexp.MustCompile(`\D`)

// normalizeToJID parses a raw phone number into WhatsApp's
// `<digits>@s.whatsapp.net` JID form. Already-JID-shaped input passes
// through untouched.
func normalizeToJID(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.Contains(raw, "@") {
		return raw
	}
	digits := nonDigits.ReplaceAllString(raw, "")
	return digits + "@s.whatsapp.net"
}

// Planner turns a DRAFT Campaign into a SCHEDULED one: it resolves the
// deduplicated recipient set, creates the per-recipient QueueItems
// with round-robin template assignment, and renders each item's body.
type Planner struct {
	campaigns  domainCampaign.Repository
	recipients domainCampaign.RecipientRepository
	queueItems domainCampaign.QueueItemRepository
	// groupMembers resolves a group JID to its member JIDs, bridging to
	// core/bridge.Client.GroupParticipants without this package
	// depending on the Bridge client type directly.
	groupMembers func(ctx context.Context, instanceID, sessionID, token, groupJID string) ([]string, error)
}

// NewPlanner wires the Planner's dependencies.
func NewPlanner(
	campaigns domainCampaign.Repository,
	recipients domainCampaign.RecipientRepository,
	queueItems domainCampaign.QueueItemRepository,
	groupMembers func(ctx context.Context, instanceID, sessionID, token, groupJID string) ([]string, error),
) *Planner {
	return &Planner{
		campaigns:    campaigns,
		recipients:   recipients,
		queueItems:   queueItems,
		groupMembers: groupMembers,
	}
}

// Plan implements spec.md §4.H's DRAFT -> SCHEDULED transition.
func (p *Planner) Plan(ctx context.Context, campaignID, sessionID, token string) (domainCampaign.Campaign, error) {
	campaign, err := p.campaigns.GetByID(ctx, campaignID)
	if err != nil {
		return domainCampaign.Campaign{}, err
	}
	if campaign.Status != domainCampaign.StatusDraft {
		return domainCampaign.Campaign{}, fmt.Errorf("campaign %s is not in DRAFT status", campaignID)
	}
	if len(campaign.Templates) == 0 {
		return domainCampaign.Campaign{}, fmt.Errorf("campaign %s has no templates", campaignID)
	}

	jids, err := p.resolveRecipientJIDs(ctx, campaign, sessionID, token)
	if err != nil {
		return domainCampaign.Campaign{}, err
	}

	recipients := make([]domainCampaign.Recipient, 0, len(jids))
	for _, jid := range jids {
		recipients = append(recipients, domainCampaign.Recipient{
			ID:         uuid.NewString(),
			CampaignID: campaign.ID,
			JID:        jid,
		})
	}
	recipients, err = p.recipients.BulkCreate(ctx, recipients)
	if err != nil {
		return domainCampaign.Campaign{}, err
	}

	items := p.buildQueueItems(campaign, recipients)
	if _, err := p.queueItems.BulkCreate(ctx, items); err != nil {
		return domainCampaign.Campaign{}, err
	}

	campaign.Planned = len(items)
	campaign.Status = domainCampaign.StatusScheduled
	return p.campaigns.Update(ctx, campaign)
}

// resolveRecipientJIDs implements step 1: deduplicated union of
// raw_numbers (normalized to JID form) and every JID in each selected
// group.
func (p *Planner) resolveRecipientJIDs(ctx context.Context, campaign domainCampaign.Campaign, sessionID, token string) ([]string, error) {
	seen := map[string]bool{}
	var out []string

	add := func(jid string) {
		if jid == "" || seen[jid] {
			return
		}
		seen[jid] = true
		out = append(out, jid)
	}

	for _, raw := range campaign.RawNumbers {
		add(normalizeToJID(raw))
	}

	for _, group := range campaign.Groups {
		if p.groupMembers == nil {
			continue
		}
		members, err := p.groupMembers(ctx, campaign.InstanceID, sessionID, token, group)
		if err != nil {
			return nil, fmt.Errorf("resolving group %s: %w", group, err)
		}
		for _, m := range members {
			add(m)
		}
	}

	return out, nil
}

// buildQueueItems implements steps 2-3: messages_per_recipient
// QueueItems per recipient, template chosen round-robin across the
// campaign's template set, body rendered with the name placeholder
// when enabled.
func (p *Planner) buildQueueItems(campaign domainCampaign.Campaign, recipients []domainCampaign.Recipient) []domainCampaign.QueueItem {
	items := make([]domainCampaign.QueueItem, 0, len(recipients)*campaign.MessagesPerRecipient)
	templateIdx := 0

	for _, recipient := range recipients {
		for step := 1; step <= campaign.MessagesPerRecipient; step++ {
			tmpl := campaign.Templates[templateIdx%len(campaign.Templates)]
			templateIdx++

			body := tmpl.Body
			if campaign.UseNamePlaceholder && recipient.DisplayName != "" {
				body = strings.ReplaceAll(body, "{nome}", recipient.DisplayName)
			}

			items = append(items, domainCampaign.QueueItem{
				ID:           uuid.NewString(),
				CampaignID:   campaign.ID,
				RecipientID:  recipient.ID,
				Step:         step,
				ScheduledAt:  campaign.StartAt,
				Status:       domainCampaign.QueueItemQueued,
				RenderedBody: body,
				TemplateID:   tmpl.ID,
				MediaID:      tmpl.MediaID,
			})
		}
	}

	return items
}
