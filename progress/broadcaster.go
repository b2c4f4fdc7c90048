// Package progress implements a small fan-out event bus that lets an
// external tool (an editor plugin, a CI runner, the optional apiserver)
// observe compilation progress without polling the filesystem for debug
// dumps. One goroutine owns subscription state and three channels
// (register/unregister/broadcast) mediate all access, so the compiler core
// itself never needs locks.
package progress

import "sync"

// StageEvent reports the completion of one pipeline stage.
type StageEvent struct {
	SessionID   string
	Stage       string // "parsed", "spaced", "addressed", "implemented"
	Diagnostics int
	Done        bool
}

// Subscription represents a client's subscription to events for a session
// (empty SessionID subscribes to all sessions).
type Subscription struct {
	SessionID string
	Channel   chan StageEvent
}

// Broadcaster distributes StageEvents to every subscribed client.
type Broadcaster struct {
	mu            sync.RWMutex
	subscriptions map[*Subscription]bool
	broadcast     chan StageEvent
	register      chan *Subscription
	unregister    chan *Subscription
	done          chan struct{}
}

// New creates and starts a new event broadcaster.
func New() *Broadcaster {
	b := &Broadcaster{
		subscriptions: make(map[*Subscription]bool),
		broadcast:     make(chan StageEvent, 256),
		register:      make(chan *Subscription),
		unregister:    make(chan *Subscription),
		done:          make(chan struct{}),
	}
	go b.run()
	return b
}

func (b *Broadcaster) run() {
	for {
		select {
		case sub := <-b.register:
			b.mu.Lock()
			b.subscriptions[sub] = true
			b.mu.Unlock()

		case sub := <-b.unregister:
			b.mu.Lock()
			if b.subscriptions[sub] {
				delete(b.subscriptions, sub)
				close(sub.Channel)
			}
			b.mu.Unlock()

		case event := <-b.broadcast:
			b.mu.RLock()
			for sub := range b.subscriptions {
				if sub.SessionID != "" && sub.SessionID != event.SessionID {
					continue
				}
				select {
				case sub.Channel <- event:
				default:
					// slow consumer: drop rather than block the compiler
				}
			}
			b.mu.RUnlock()

		case <-b.done:
			return
		}
	}
}

// Subscribe registers a new subscription. Callers must Unsubscribe when
// finished to release the subscription's channel.
func (b *Broadcaster) Subscribe(sessionID string) *Subscription {
	sub := &Subscription{SessionID: sessionID, Channel: make(chan StageEvent, 64)}
	b.register <- sub
	return sub
}

// Unsubscribe removes a subscription and closes its channel.
func (b *Broadcaster) Unsubscribe(sub *Subscription) {
	b.unregister <- sub
}

// Publish broadcasts a StageEvent to every matching subscriber.
func (b *Broadcaster) Publish(event StageEvent) {
	select {
	case b.broadcast <- event:
	default:
		// broadcast channel full: drop the event rather than block the compiler
	}
}

// Close stops the broadcaster's run loop.
func (b *Broadcaster) Close() {
	close(b.done)
}
