package api

import (
	"net/http"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
)

const sseDataPrefix = "data: "

// Broker fans board changes out to stream subscribers. Notifications are
// coalesced: a subscriber that has not consumed the previous signal gets no
// second one.
type Broker struct {
	mu   sync.Mutex
	subs map[chan struct{}]struct{}
}

// NewBroker creates an empty broker.
func NewBroker() *Broker {
	return &Broker{subs: make(map[chan struct{}]struct{})}
}

func (b *Broker) subscribe() chan struct{} {
	ch := make(chan struct{}, 1)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) unsubscribe(ch chan struct{}) {
	b.mu.Lock()
	delete(b.subs, ch)
	b.mu.Unlock()
}

// Notify signals every subscriber. It never blocks.
func (b *Broker) Notify() {
	b.mu.Lock()
	for ch := range b.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	b.mu.Unlock()
}

// Subscribers returns the current subscriber count.
func (b *Broker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// streamBoard writes the board view as a server-sent event on connect and
// after every change until the client goes away.
func (s *Server) streamBoard(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderContentType, "text/event-stream")
	c.Response().Header().Set(echo.HeaderCacheControl, "no-cache")
	c.Response().Header().Set(echo.HeaderConnection, "keep-alive")
	c.Response().Header().Set("X-Accel-Buffering", "no")
	flusher, ok := c.Response().Writer.(http.Flusher)
	if !ok {
		return c.String(http.StatusInternalServerError, "stream unsupported")
	}
	ctx := c.Request().Context()
	ch := s.broker.subscribe()
	defer s.broker.unsubscribe(ch)
	c.Response().WriteHeader(http.StatusOK)
	for {
		data, err := sonic.Marshal(s.board.View())
		if err != nil {
			s.log.WithError(err).Error("encode board view")
			return err
		}
		if _, err := c.Response().Write([]byte(sseDataPrefix)); err != nil {
			return err
		}
		if _, err := c.Response().Write(data); err != nil {
			return err
		}
		if _, err := c.Response().Write([]byte("\n\n")); err != nil {
			return err
		}
		flusher.Flush()
		select {
		case <-ctx.Done():
			return nil
		case <-ch:
			continue
		}
	}
}
