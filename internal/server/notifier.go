package server

import "sync"

// notifier broadcasts events to subscribed listeners.
type notifier struct {
	mu        sync.RWMutex
	listeners map[chan string]struct{}
}

func newNotifier() *notifier {
	return &notifier{
		listeners: make(map[chan string]struct{}),
	}
}

// Subscribe returns a channel that receives broadcast events.
// The caller must call Unsubscribe when done.
func (n *notifier) Subscribe() chan string {
	ch := make(chan string, 1)
	n.mu.Lock()
	n.listeners[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener channel and closes it.
func (n *notifier) Unsubscribe(ch chan string) {
	n.mu.Lock()
	delete(n.listeners, ch)
	n.mu.Unlock()
	close(ch)
}

// Broadcast sends event to all listeners. A listener whose channel is full
// misses the event.
func (n *notifier) Broadcast(event string) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch := range n.listeners {
		select {
		case ch <- event:
		default:
		}
	}
}
