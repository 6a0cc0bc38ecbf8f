package services

import (
	"context"
	"log"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FeedEvent is a change notice pushed to connected clients. It carries the
// collection and document id only; clients refetch what they care about.
type FeedEvent struct {
	Collection string `json:"collection"`
	Operation  string `json:"operation"`
	DocumentID string `json:"document_id,omitempty"`
}

// EventFeed tails Mongo change streams on the watched collections and fans
// events out to subscribers. Slow subscribers drop events rather than block
// the stream.
type EventFeed struct {
	db   *mongo.Database
	mu   sync.Mutex
	subs map[chan FeedEvent]struct{}
}

// WatchedCollections are the collections whose changes drive client refetches.
var WatchedCollections = []string{
	"releases",
	"notifications",
	"announcements",
	"announcement_bar",
	"maintenance_settings",
}

func NewEventFeed(db *mongo.Database) *EventFeed {
	return &EventFeed{
		db:   db,
		subs: make(map[chan FeedEvent]struct{}),
	}
}

// Subscribe registers a buffered event channel. Call the returned cancel
// func when the client disconnects.
func (f *EventFeed) Subscribe() (<-chan FeedEvent, func()) {
	ch := make(chan FeedEvent, 16)

	f.mu.Lock()
	f.subs[ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if _, ok := f.subs[ch]; ok {
			delete(f.subs, ch)
			close(ch)
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

func (f *EventFeed) broadcast(ev FeedEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subs {
		select {
		case ch <- ev:
		default:
			// Subscriber is behind; it will catch up on its next refetch.
		}
	}
}

// Run watches each collection until ctx is cancelled, reopening streams on
// error with a short backoff. Change streams require a replica set; on
// standalone Mongo the watch fails and the feed stays silent.
func (f *EventFeed) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, name := range WatchedCollections {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			f.watch(ctx, name)
		}(name)
	}
	wg.Wait()
}

func (f *EventFeed) watch(ctx context.Context, name string) {
	for {
		if ctx.Err() != nil {
			return
		}

		stream, err := f.db.Collection(name).Watch(
			ctx,
			mongo.Pipeline{},
			options.ChangeStream().SetFullDocument(options.UpdateLookup),
		)
		if err != nil {
			log.Printf("[events] watch failed collection=%s err=%v", name, err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(5 * time.Second):
			}
			continue
		}

		f.drain(ctx, name, stream)
		_ = stream.Close(context.Background())
	}
}

func (f *EventFeed) drain(ctx context.Context, name string, stream *mongo.ChangeStream) {
	for stream.Next(ctx) {
		var change struct {
			OperationType string `bson:"operationType"`
			DocumentKey   struct {
				ID interface{} `bson:"_id"`
			} `bson:"documentKey"`
		}
		if err := stream.Decode(&change); err != nil {
			log.Printf("[events] decode failed collection=%s err=%v", name, err)
			continue
		}

		id := ""
		switch v := change.DocumentKey.ID.(type) {
		case string:
			id = v
		case bson.RawValue:
			id, _ = v.StringValueOK()
		}

		f.broadcast(FeedEvent{
			Collection: name,
			Operation:  change.OperationType,
			DocumentID: id,
		})
	}
	if err := stream.Err(); err != nil && ctx.Err() == nil {
		log.Printf("[events] stream error collection=%s err=%v", name, err)
	}
}
