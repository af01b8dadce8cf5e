package v1

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/tasklist/internal/services"
)

// stateBroker fans task list states out to event stream clients.
// Every client holds at most one undelivered state, the newest.
type stateBroker struct {
	mu      sync.Mutex
	clients map[chan services.State]struct{}
	closed  bool
}

func newStateBroker() *stateBroker {
	return &stateBroker{clients: make(map[chan services.State]struct{})}
}

func (b *stateBroker) subscribe() (<-chan services.State, func(), bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, nil, false
	}

	ch := make(chan services.State, 1)
	b.clients[ch] = struct{}{}
	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.clients[ch]; ok {
			delete(b.clients, ch)
			close(ch)
		}
	}, true
}

func (b *stateBroker) publish(state services.State) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.clients {
		select {
		case ch <- state:
		default:
			// Replace the stale undelivered state.
			select {
			case <-ch:
			default:
			}
			ch <- state
		}
	}
}

func (b *stateBroker) close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	for ch := range b.clients {
		delete(b.clients, ch)
		close(ch)
	}
}

func (h *handlerImpl) HandleEvents(c *gin.Context) {
	states, unsubscribe, ok := h.events.subscribe()
	if !ok {
		abort(c, newStatusTextError(http.StatusServiceUnavailable))
		return
	}
	defer unsubscribe()

	var initial services.State
	h.withTasks(func(tasks services.TaskList) {
		initial = tasks.State()
	})

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.SSEvent("state", initial)
	c.Writer.Flush()

	h.logger.Debug().Msg("opened event stream")
	for {
		select {
		case state, ok := <-states:
			if !ok {
				return
			}
			c.SSEvent("state", state)
			c.Writer.Flush()
		case <-c.Request.Context().Done():
			h.logger.Debug().Msg("event stream client went away")
			return
		}
	}
}
