// Package realtime subscribes to Supabase Realtime change notifications
// over its Phoenix-channel websocket protocol. Only table-scoped UPDATE
// subscriptions filtered by record id are needed here; the rest of the
// protocol is out of scope.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/vidranorte/vitrine-api/internal/port"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Subscriber dials the project's realtime endpoint. One Subscriber serves
// many subscriptions; each SubscribeObra call owns its own connection so a
// dead socket only kills its own stream.
type Subscriber struct {
	wsURL     string
	apiKey    string
	heartbeat time.Duration
	logger    *zap.Logger

	refs atomic.Int64
}

// NewSubscriber derives the websocket endpoint from the project base URL.
func NewSubscriber(baseURL, apiKey string, heartbeat time.Duration, logger *zap.Logger) *Subscriber {
	ws := strings.Replace(baseURL, "https://", "wss://", 1)
	ws = strings.Replace(ws, "http://", "ws://", 1)
	return &Subscriber{
		wsURL:     ws + "/realtime/v1/websocket?apikey=" + apiKey + "&vsn=1.0.0",
		apiKey:    apiKey,
		heartbeat: heartbeat,
		logger:    logger,
	}
}

// phxMessage is the Phoenix channel frame.
type phxMessage struct {
	Topic   string          `json:"topic"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
	Ref     string          `json:"ref"`
}

// changePayload is the body of a postgres_changes notification.
type changePayload struct {
	Type   string          `json:"type"`
	Record json.RawMessage `json:"record"`
}

// SubscribeObra opens an UPDATE subscription for one obras row. The caller
// must already know the opaque id: the detail page resolves the titulo
// first and only then subscribes. The channel closes when ctx ends or the
// socket dies; there is no reconnect.
func (s *Subscriber) SubscribeObra(ctx context.Context, obraID string) (<-chan port.ObraChange, error) {
	topic := fmt.Sprintf("realtime:public:obras:id=eq.%s", obraID)

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, s.wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial realtime: %w", err)
	}

	join := phxMessage{
		Topic:   topic,
		Event:   "phx_join",
		Payload: json.RawMessage(`{}`),
		Ref:     s.nextRef(),
	}
	if err := conn.WriteJSON(join); err != nil {
		conn.Close()
		return nil, fmt.Errorf("join channel: %w", err)
	}

	s.logger.Info("realtime: subscribed",
		zap.String("topic", topic),
	)

	ch := make(chan port.ObraChange)

	// Writer side: heartbeats keep the socket alive; ctx cancellation
	// closes the connection, which unblocks the reader below.
	go func() {
		ticker := time.NewTicker(s.heartbeat)
		defer ticker.Stop()
		defer conn.Close()

		for {
			select {
			case <-ctx.Done():
				_ = conn.WriteJSON(phxMessage{
					Topic:   topic,
					Event:   "phx_leave",
					Payload: json.RawMessage(`{}`),
					Ref:     s.nextRef(),
				})
				return
			case <-ticker.C:
				hb := phxMessage{
					Topic:   "phoenix",
					Event:   "heartbeat",
					Payload: json.RawMessage(`{}`),
					Ref:     s.nextRef(),
				}
				if err := conn.WriteJSON(hb); err != nil {
					s.logger.Warn("realtime: heartbeat failed",
						zap.String("topic", topic),
						zap.Error(err),
					)
					return
				}
			}
		}
	}()

	// Reader side: deliver UPDATE records, drop protocol chatter.
	go func() {
		defer close(ch)

		for {
			var msg phxMessage
			if err := conn.ReadJSON(&msg); err != nil {
				if ctx.Err() == nil {
					// Socket died on its own. Log and end the stream —
					// recovery is the consumer's decision, not ours.
					s.logger.Error("realtime: read failed",
						zap.String("topic", msg.Topic),
						zap.Error(err),
					)
				}
				return
			}

			if msg.Event != "UPDATE" || msg.Topic != topic {
				continue
			}

			var payload changePayload
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				s.logger.Warn("realtime: undecodable payload",
					zap.String("topic", topic),
					zap.Error(err),
				)
				continue
			}

			select {
			case ch <- port.ObraChange{Type: payload.Type, Record: payload.Record}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch, nil
}

func (s *Subscriber) nextRef() string {
	return strconv.FormatInt(s.refs.Add(1), 10)
}
