// Package livequery turns change notifications into full snapshots.
//
// Writers call Feed.Notify after a successful write. Every subscribed query
// whose scope matches re-reads its data and delivers the complete result to
// its observer. Snapshots are never diffs, so the most recent one is always
// authoritative.
package livequery

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const DefaultTopic = "notes.changed"

// Feed carries change notifications between writers and live queries.
type Feed struct {
	pubSub *gochannel.GoChannel
	topic  string
}

func NewFeed(pubSub *gochannel.GoChannel, topic string) *Feed {
	return &Feed{pubSub: pubSub, topic: topic}
}

// NewInMemoryFeed builds a feed on its own gochannel pub/sub.
func NewInMemoryFeed() *Feed {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	return NewFeed(pubSub, DefaultTopic)
}

// Notify signals that data in scope changed.
func (f *Feed) Notify(scope string) error {
	msg := message.NewMessage(watermill.NewUUID(), []byte(scope))
	return f.pubSub.Publish(f.topic, msg)
}

func (f *Feed) Close() error {
	return f.pubSub.Close()
}
