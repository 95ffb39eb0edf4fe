// Package events carries change notifications between the admin back-office
// and open POS views. Every event holds a full snapshot of the changed
// resource, so a subscriber never has to merge diffs.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Topics
const (
	TopicCatalogChanged = "catalog-changed"
	TopicConfigChanged  = "config-changed"
)

// Event kinds
const (
	KindMenuSynced          = "menu-synced-to-pos"
	KindItemChanged         = "catalog-item-updated"
	KindPOSConfigUpdated    = "pos-config-updated"
	KindGlobalConfigUpdated = "global-config-updated"
)

// Topics lists every topic the API publishes on
var Topics = []string{TopicCatalogChanged, TopicConfigChanged}

// Event is a fire-and-forget notification. StoreID is uuid.Nil for
// events that concern every store.
type Event struct {
	Topic    string          `json:"topic"`
	Kind     string          `json:"kind"`
	StoreID  uuid.UUID       `json:"store_id"`
	Snapshot json.RawMessage `json:"snapshot"`
	At       time.Time       `json:"at"`
}

// NewEvent marshals snapshot into an event
func NewEvent(topic, kind string, storeID uuid.UUID, snapshot interface{}, at time.Time) (Event, error) {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s snapshot: %w", kind, err)
	}
	return Event{Topic: topic, Kind: kind, StoreID: storeID, Snapshot: raw, At: at}, nil
}

// Bus publishes events to every current subscriber of a topic
type Bus interface {
	Publish(ctx context.Context, event Event) error
	// Subscribe returns a channel of events and a function that ends the
	// subscription and closes the channel
	Subscribe(topic string) (<-chan Event, func())
	Close() error
}
