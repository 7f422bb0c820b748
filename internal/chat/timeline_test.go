package chat

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(sec int) time.Time {
	return time.Date(2025, 3, 1, 12, 0, sec, 0, time.UTC)
}

func userMsg(id string, at time.Time) Message {
	return Message{ID: id, Content: "hello " + id, CreatedAt: at}
}

func agentMsg(id, agentID string, at time.Time) Message {
	return Message{ID: id, AgentID: agentID, Content: "reply", CreatedAt: at}
}

func action(id string, state ActionState, at time.Time) Action {
	return Action{
		ID:        id,
		AgentID:   "agent-1",
		Skill:     "transfer",
		State:     state,
		Task:      &Task{Response: "resp " + id},
		CreatedAt: at,
	}
}

func TestMergeTimeline_FiltersAgentMessages(t *testing.T) {
	items := MergeTimeline(
		[]Message{
			userMsg("m1", ts(1)),
			agentMsg("m2", "agent-1", ts(2)),
			userMsg("m3", ts(3)),
		},
		[]Action{action("a1", StateReviewing, ts(2))},
	)

	require.Len(t, items, 3)
	assert.Equal(t, "m1", items[0].Message.ID)
	assert.Equal(t, ItemAction, items[1].Kind)
	assert.Equal(t, "m3", items[2].Message.ID)
}

func TestMergeTimeline_OrderedByCreation(t *testing.T) {
	items := MergeTimeline(
		[]Message{userMsg("m2", ts(5)), userMsg("m1", ts(1))},
		[]Action{action("a2", StateProcessed, ts(9)), action("a1", StateGenerating, ts(3))},
	)

	require.Len(t, items, 4)
	for i := 1; i < len(items); i++ {
		assert.False(t, items[i].Time().Before(items[i-1].Time()),
			"timeline must be non-decreasing at index %d", i)
	}
	assert.Equal(t, "m1", items[0].Message.ID)
	assert.Equal(t, "a1", items[1].Action.ID)
	assert.Equal(t, "m2", items[2].Message.ID)
	assert.Equal(t, "a2", items[3].Action.ID)
}

func TestMergeTimeline_StableOnEqualTimestamps(t *testing.T) {
	// Messages come before actions in input order, and the stable sort
	// must keep that order for equal timestamps.
	items := MergeTimeline(
		[]Message{userMsg("m1", ts(4))},
		[]Action{action("a1", StatePending, ts(4)), action("a2", StatePending, ts(4))},
	)

	require.Len(t, items, 3)
	assert.Equal(t, ItemMessage, items[0].Kind)
	assert.Equal(t, "a1", items[1].Action.ID)
	assert.Equal(t, "a2", items[2].Action.ID)
}

func TestMergeTimeline_Idempotent(t *testing.T) {
	msgs := []Message{userMsg("m1", ts(1)), agentMsg("m2", "agent-1", ts(2))}
	acts := []Action{action("a1", StateConfirmed, ts(2))}

	first := MergeTimeline(msgs, acts)
	second := MergeTimeline(msgs, acts)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("timeline not idempotent (-first +second):\n%s", diff)
	}
}

func TestMergeTimeline_Empty(t *testing.T) {
	assert.Empty(t, MergeTimeline(nil, nil))
	assert.Len(t, MergeTimeline(nil, []Action{action("a1", StatePending, ts(1))}), 1)
}
