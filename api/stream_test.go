package api

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"

	"menu-planner/domain"
)

func readEvent(t *testing.T, r *bufio.Reader) domain.BoardView {
	t.Helper()
	line, err := r.ReadString('\n')
	if err != nil {
		t.Fatalf("read event: %v", err)
	}
	if !strings.HasPrefix(line, sseDataPrefix) {
		t.Fatalf("unexpected event line: %q", line)
	}
	var view domain.BoardView
	if err := sonic.UnmarshalString(strings.TrimPrefix(strings.TrimSpace(line), sseDataPrefix), &view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if _, err := r.ReadString('\n'); err != nil {
		t.Fatalf("read separator: %v", err)
	}
	return view
}

func TestStreamBoardPushesChanges(t *testing.T) {
	ts := newTestServer(t, Options{})
	httpSrv := httptest.NewServer(ts.e)
	t.Cleanup(httpSrv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, httpSrv.URL+"/api/stream", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := httpSrv.Client().Do(req)
	if err != nil {
		t.Fatalf("stream request: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("unexpected content type: %q", ct)
	}

	r := bufio.NewReader(resp.Body)
	first := readEvent(t, r)
	if first.Sections[0].Total != 0 {
		t.Fatalf("expected empty board, got %+v", first.Sections[0])
	}

	if _, err := ts.board.AddRow(domain.Lunch); err != nil {
		t.Fatalf("add row: %v", err)
	}
	second := readEvent(t, r)
	if second.Sections[0].Total != 1 {
		t.Fatalf("expected pushed change, got %+v", second.Sections[0])
	}

	cancel()
	deadline := time.Now().Add(time.Second)
	for ts.srv.Broker().Subscribers() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("subscriber not released after disconnect")
		}
		ts.srv.Broker().Notify()
		time.Sleep(10 * time.Millisecond)
	}
}

func TestBrokerNotifyCoalesces(t *testing.T) {
	b := NewBroker()
	ch := b.subscribe()
	b.Notify()
	b.Notify()

	select {
	case <-ch:
	default:
		t.Fatal("expected a pending notification")
	}
	select {
	case <-ch:
		t.Fatal("expected notifications to coalesce")
	default:
	}

	b.unsubscribe(ch)
	if b.Subscribers() != 0 {
		t.Fatalf("expected no subscribers, got %d", b.Subscribers())
	}
	b.Notify()
}
