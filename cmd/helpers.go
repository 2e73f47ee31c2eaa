package cmd

import "encoding/json"

// parseGroupParticipants tolerates the two shapes the Bridge has been
// observed to return for a participant listing: a bare JID array, or
// an envelope carrying a "participants" array of {id} objects.
func parseGroupParticipants(raw json.RawMessage) ([]string, error) {
	var bare []string
	if err := json.Unmarshal(raw, &bare); err == nil && len(bare) > 0 {
		return bare, nil
	}

	var envelope struct {
		Participants []struct {
			ID  string `json:"id"`
			JID string `json:"jid"`
		} `json:"participants"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, err
	}

	jids := make([]string, 0, len(envelope.Participants))
	for _, p := range envelope.Participants {
		if p.ID != "" {
			jids = append(jids, p.ID)
		} else if p.JID != "" {
			jids = append(jids, p.JID)
		}
	}
	return jids, nil
}
