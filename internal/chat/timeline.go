package chat

import (
	"sort"
	"time"
)

// ItemKind distinguishes the two timeline entry types.
type ItemKind int

const (
	ItemMessage ItemKind = iota
	ItemAction
)

// Item is one entry in the merged timeline: either a user message or an agent
// action. Derived for rendering only, never stored.
type Item struct {
	Kind    ItemKind
	Message Message
	Action  Action
}

// Time returns the creation timestamp the timeline orders by.
func (it Item) Time() time.Time {
	if it.Kind == ItemMessage {
		return it.Message.CreatedAt
	}
	return it.Action.CreatedAt
}

// MergeTimeline combines user-authored messages and all actions into one
// chronologically ordered sequence. Agent-authored messages are dropped: their
// content is already carried by the corresponding action's response field.
// The sort is stable, so equal timestamps keep input order.
func MergeTimeline(messages []Message, actions []Action) []Item {
	items := make([]Item, 0, len(messages)+len(actions))
	for _, m := range messages {
		if !m.UserAuthored() {
			continue
		}
		items = append(items, Item{Kind: ItemMessage, Message: m})
	}
	for _, a := range actions {
		items = append(items, Item{Kind: ItemAction, Action: a})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Time().Before(items[j].Time())
	})
	return items
}
