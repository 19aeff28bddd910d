package display

import (
	"context"
	"sync"
	"time"

	"nhooyr.io/websocket"
	"voyager.com/settable/logging"
)

var hubLogger = logging.GetZeroLogger("display::hub", nil)

type subscriber struct {
	msgs chan []byte
	// called when the subscriber falls too far behind
	closeSlow func()
}

// Hub fans table events out to websocket subscribers of each table.
type Hub struct {
	bufferSize   int
	writeTimeout time.Duration

	lock        sync.Mutex
	subscribers map[string]map[*subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{
		bufferSize:   64,
		writeTimeout: 5 * time.Second,
		subscribers:  make(map[string]map[*subscriber]struct{}),
	}
}

// Publish never blocks. A subscriber whose buffer is full is disconnected.
func (h *Hub) Publish(event Event) {
	data, err := event.Marshal()
	if err != nil {
		hubLogger.Error().Str(logging.TableCodeKey, event.Table).Msgf("Unable to encode event: %v", err)
		return
	}

	h.lock.Lock()
	defer h.lock.Unlock()
	for s := range h.subscribers[event.Table] {
		select {
		case s.msgs <- data:
		default:
			go s.closeSlow()
		}
	}
}

func (h *Hub) SubscriberCount(code string) int {
	h.lock.Lock()
	defer h.lock.Unlock()
	return len(h.subscribers[code])
}

func (h *Hub) addSubscriber(code string, s *subscriber) {
	h.lock.Lock()
	defer h.lock.Unlock()
	if h.subscribers[code] == nil {
		h.subscribers[code] = make(map[*subscriber]struct{})
	}
	h.subscribers[code][s] = struct{}{}
}

func (h *Hub) deleteSubscriber(code string, s *subscriber) {
	h.lock.Lock()
	defer h.lock.Unlock()
	delete(h.subscribers[code], s)
	if len(h.subscribers[code]) == 0 {
		delete(h.subscribers, code)
	}
}

// Serve streams the events of one table to conn until the client goes away
// or ctx is done. Messages from the client are ignored.
func (h *Hub) Serve(ctx context.Context, code string, conn *websocket.Conn) error {
	s := &subscriber{
		msgs: make(chan []byte, h.bufferSize),
		closeSlow: func() {
			conn.Close(websocket.StatusPolicyViolation, "connection too slow to keep up with table events")
		},
	}
	h.addSubscriber(code, s)
	defer h.deleteSubscriber(code, s)

	ctx = conn.CloseRead(ctx)
	for {
		select {
		case msg := <-s.msgs:
			err := h.write(ctx, conn, msg)
			if err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (h *Hub) write(ctx context.Context, conn *websocket.Conn, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, h.writeTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, msg)
}
