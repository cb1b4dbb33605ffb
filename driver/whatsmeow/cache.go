package whatsmeow

import (
	"sync"
	"sync/atomic"
	"time"

	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"
)

// pruneEvery is the number of insertions between two expiry sweeps
const pruneEvery = 512

type CachedMessage struct {
	ID       types.MessageID
	Chat     types.JID
	Sender   types.JID
	FromMe   bool
	Body     string
	Message  *waE2E.Message
	CachedAt time.Time
}

/* MessageCache keeps recent messages by id
 * Acks and revokes only carry ids, the cache supplies their bodies and media
 */
type MessageCache struct {
	store   sync.Map // map[message id]*CachedMessage
	ttl     time.Duration
	inserts atomic.Int64

	// unread holds incoming message ids per chat until the chat is marked seen
	mu     sync.Mutex
	unread map[types.JID][]*CachedMessage
}

func NewMessageCache(ttl time.Duration) *MessageCache {
	return &MessageCache{
		ttl:    ttl,
		unread: make(map[types.JID][]*CachedMessage),
	}
}

func (c *MessageCache) Get(id types.MessageID) (*CachedMessage, bool) {
	val, ok := c.store.Load(id)
	if !ok {
		return nil, false
	}

	msg := val.(*CachedMessage)
	if time.Since(msg.CachedAt) > c.ttl {
		c.store.Delete(id)
		return nil, false
	}

	return msg, true
}

func (c *MessageCache) Set(msg *CachedMessage) {
	msg.CachedAt = time.Now()
	c.store.Store(msg.ID, msg)

	if !msg.FromMe {
		c.mu.Lock()
		chat := msg.Chat.ToNonAD()
		c.unread[chat] = append(c.unread[chat], msg)
		c.mu.Unlock()
	}

	if c.inserts.Add(1)%pruneEvery == 0 {
		c.Prune()
	}
}

// TakeUnread returns and forgets the unread messages of chat
func (c *MessageCache) TakeUnread(chat types.JID) []*CachedMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	chat = chat.ToNonAD()
	msgs := c.unread[chat]
	delete(c.unread, chat)
	return msgs
}

// Prune drops expired entries
func (c *MessageCache) Prune() {
	c.store.Range(func(key, val any) bool {
		if time.Since(val.(*CachedMessage).CachedAt) > c.ttl {
			c.store.Delete(key)
		}
		return true
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	for chat, msgs := range c.unread {
		kept := msgs[:0]
		for _, m := range msgs {
			if time.Since(m.CachedAt) <= c.ttl {
				kept = append(kept, m)
			}
		}
		if len(kept) == 0 {
			delete(c.unread, chat)
		} else {
			c.unread[chat] = kept
		}
	}
}
