package chatbot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSplitsAtParagraphBoundary(t *testing.T) {
	para1 := strings.Repeat("a", 400)
	para2 := strings.Repeat("b", 400)
	d := Decision{Messages: []string{para1 + "\n\n" + para2}}
	d.Normalize()

	assert.Len(t, d.Messages, 2)
	assert.Equal(t, para1, d.Messages[0])
	assert.Equal(t, para2, d.Messages[1])
	assert.Len(t, d.DelaysMs, 1)
	assert.GreaterOrEqual(t, d.DelaysMs[0], 450)
	assert.LessOrEqual(t, d.DelaysMs[0], 1600)
}

func TestNormalizeSplitsAtSentenceBoundary(t *testing.T) {
	sentence := strings.Repeat("x", 740) + ". " + strings.Repeat("y", 100)
	d := Decision{Messages: []string{sentence}}
	d.Normalize()

	for _, m := range d.Messages {
		assert.LessOrEqual(t, len(m), MaxMessageChars)
	}
}

func TestNormalizeSplitsAtWordBoundaryWhenNoSentenceBreak(t *testing.T) {
	words := strings.Repeat("word ", 200) // no periods, forces word-boundary split
	d := Decision{Messages: []string{words}}
	d.Normalize()

	for _, m := range d.Messages {
		assert.LessOrEqual(t, len(m), MaxMessageChars)
	}
	assert.True(t, len(d.Messages) > 1)
}

func TestNormalizeCapsAtFourMessages(t *testing.T) {
	d := Decision{Messages: []string{"one", "two", "three", "four", "five"}}
	d.Normalize()
	assert.Len(t, d.Messages, MaxOutboundMessages)
}

func TestNormalizeDropsEmptyMessages(t *testing.T) {
	d := Decision{Messages: []string{"  ", "hello", ""}}
	d.Normalize()
	assert.Equal(t, []string{"hello"}, d.Messages)
}

func TestNormalizeFillsMissingDelays(t *testing.T) {
	d := Decision{Messages: []string{"a", "b", "c"}, DelaysMs: []int{900}}
	d.Normalize()
	assert.Len(t, d.DelaysMs, 2)
	assert.Equal(t, 900, d.DelaysMs[0])
	assert.GreaterOrEqual(t, d.DelaysMs[1], 450)
	assert.LessOrEqual(t, d.DelaysMs[1], 1600)
}

func TestNormalizeRejectsDisallowedReaction(t *testing.T) {
	d := Decision{Messages: []string{"hi"}, ReactionEmoji: "💩"}
	d.Normalize()
	assert.Equal(t, "", d.ReactionEmoji)
}

func TestNormalizeKeepsAllowedReaction(t *testing.T) {
	d := Decision{Messages: []string{"hi"}, ReactionEmoji: "👍"}
	d.Normalize()
	assert.Equal(t, "👍", d.ReactionEmoji)
}
