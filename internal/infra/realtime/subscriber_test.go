package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{}

// fakeRealtime stands in for the Supabase realtime endpoint: it upgrades
// the websocket, hands the connection to the test, and records the join.
type fakeRealtime struct {
	srv   *httptest.Server
	conns chan *websocket.Conn
	joins chan phxMessage
}

func newFakeRealtime(t *testing.T) *fakeRealtime {
	t.Helper()
	f := &fakeRealtime{
		conns: make(chan *websocket.Conn, 1),
		joins: make(chan phxMessage, 1),
	}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/realtime/v1/websocket" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("apikey") != "anon-key" {
			t.Errorf("missing apikey in %q", r.URL.RawQuery)
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}

		var join phxMessage
		if err := conn.ReadJSON(&join); err != nil {
			t.Errorf("read join failed: %v", err)
			conn.Close()
			return
		}
		f.joins <- join
		f.conns <- conn
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeRealtime) subscriber(heartbeat time.Duration) *Subscriber {
	return NewSubscriber(f.srv.URL, "anon-key", heartbeat, zap.NewNop())
}

func (f *fakeRealtime) waitConn(t *testing.T) *websocket.Conn {
	t.Helper()
	select {
	case conn := <-f.conns:
		return conn
	case <-time.After(2 * time.Second):
		t.Fatal("server never accepted a connection")
		return nil
	}
}

func sendUpdate(t *testing.T, conn *websocket.Conn, topic string, record string) {
	t.Helper()
	payload, _ := json.Marshal(changePayload{
		Type:   "UPDATE",
		Record: json.RawMessage(record),
	})
	msg := phxMessage{Topic: topic, Event: "UPDATE", Payload: payload}
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write update failed: %v", err)
	}
}

func TestSubscribeObra_JoinsFilteredTopic(t *testing.T) {
	fake := newFakeRealtime(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := fake.subscriber(time.Minute).SubscribeObra(ctx, "uuid-1")
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	defer fake.waitConn(t).Close()

	join := <-fake.joins
	if join.Event != "phx_join" {
		t.Errorf("event = %q, want phx_join", join.Event)
	}
	if join.Topic != "realtime:public:obras:id=eq.uuid-1" {
		t.Errorf("topic = %q", join.Topic)
	}
	if join.Ref == "" {
		t.Error("join frame should carry a ref")
	}
}

func TestSubscribeObra_DeliversUpdates(t *testing.T) {
	fake := newFakeRealtime(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := fake.subscriber(time.Minute).SubscribeObra(ctx, "uuid-1")
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	conn := fake.waitConn(t)
	defer conn.Close()

	sendUpdate(t, conn, "realtime:public:obras:id=eq.uuid-1", `{"id":"uuid-1","instalador":"Carlos"}`)

	select {
	case change := <-ch:
		if change.Type != "UPDATE" {
			t.Errorf("type = %q", change.Type)
		}
		var record map[string]any
		if err := json.Unmarshal(change.Record, &record); err != nil {
			t.Fatalf("record is not JSON: %v", err)
		}
		if record["instalador"] != "Carlos" {
			t.Errorf("record = %v", record)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no change delivered")
	}
}

func TestSubscribeObra_IgnoresProtocolChatter(t *testing.T) {
	fake := newFakeRealtime(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := fake.subscriber(time.Minute).SubscribeObra(ctx, "uuid-1")
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	conn := fake.waitConn(t)
	defer conn.Close()

	// Reply frames and updates for other rows must not reach the consumer.
	reply := phxMessage{Topic: "realtime:public:obras:id=eq.uuid-1", Event: "phx_reply", Payload: json.RawMessage(`{"status":"ok"}`)}
	if err := conn.WriteJSON(reply); err != nil {
		t.Fatalf("write reply failed: %v", err)
	}
	sendUpdate(t, conn, "realtime:public:obras:id=eq.other", `{"id":"other"}`)
	sendUpdate(t, conn, "realtime:public:obras:id=eq.uuid-1", `{"id":"uuid-1"}`)

	select {
	case change := <-ch:
		var record map[string]any
		_ = json.Unmarshal(change.Record, &record)
		if record["id"] != "uuid-1" {
			t.Errorf("delivered the wrong row: %v", record)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no change delivered")
	}

	select {
	case change, ok := <-ch:
		if ok {
			t.Errorf("unexpected extra delivery: %+v", change)
		}
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSubscribeObra_CancelClosesChannel(t *testing.T) {
	fake := newFakeRealtime(t)
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := fake.subscriber(time.Minute).SubscribeObra(ctx, "uuid-1")
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	conn := fake.waitConn(t)
	defer conn.Close()

	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected closed channel, got a delivery")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel did not close after cancel")
	}
}

func TestSubscribeObra_DeadSocketClosesChannel(t *testing.T) {
	fake := newFakeRealtime(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := fake.subscriber(time.Minute).SubscribeObra(ctx, "uuid-1")
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	conn := fake.waitConn(t)
	conn.Close()

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected closed channel, got a delivery")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel did not close after socket death")
	}
}

func TestSubscribeObra_SendsHeartbeats(t *testing.T) {
	fake := newFakeRealtime(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if _, err := fake.subscriber(20 * time.Millisecond).SubscribeObra(ctx, "uuid-1"); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	conn := fake.waitConn(t)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var hb phxMessage
	if err := conn.ReadJSON(&hb); err != nil {
		t.Fatalf("no heartbeat received: %v", err)
	}
	if hb.Topic != "phoenix" || hb.Event != "heartbeat" {
		t.Errorf("unexpected frame: %+v", hb)
	}
}

func TestNewSubscriber_DerivesWebsocketURL(t *testing.T) {
	sub := NewSubscriber("https://proj.supabase.co", "key", time.Minute, zap.NewNop())
	want := "wss://proj.supabase.co/realtime/v1/websocket?apikey=key&vsn=1.0.0"
	if sub.wsURL != want {
		t.Errorf("wsURL = %q, want %q", sub.wsURL, want)
	}
}
