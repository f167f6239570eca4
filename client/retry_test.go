package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
)

// stubDoer returns queued responses/errors in order and counts calls.
type stubDoer struct {
	calls     int
	responses []*Response
	errs      []error
}

func (s *stubDoer) Request(ctx context.Context, method, path string, opts ...RequestOption) (*Response, error) {
	i := s.calls
	s.calls++
	if i >= len(s.errs) {
		i = len(s.errs) - 1
	}
	return s.responses[i], s.errs[i]
}

func TestWithRetry_ServerErrorThenSuccess(t *testing.T) {
	stub := &stubDoer{
		responses: []*Response{nil, {Status: http.StatusOK, Body: []byte(`{"ok":true}`)}},
		errs:      []error{&Error{Kind: KindServer, Status: 500, Message: "flaky"}, nil},
	}
	d := WithRetry(stub, zerolog.Nop())

	resp, err := d.Request(context.Background(), http.MethodGet, "/api/topics")
	if err != nil {
		t.Fatalf("Request() error = %v, want success after one retry", err)
	}
	if resp.Status != http.StatusOK {
		t.Errorf("Status = %d, want 200", resp.Status)
	}
	if stub.calls != 2 {
		t.Errorf("calls = %d, want 2 (one retry)", stub.calls)
	}
}

func TestWithRetry_ServerErrorTwiceGivesUp(t *testing.T) {
	stub := &stubDoer{
		responses: []*Response{nil, nil, nil},
		errs: []error{
			&Error{Kind: KindServer, Status: 500, Message: "flaky"},
			&Error{Kind: KindServer, Status: 503, Message: "still flaky"},
			nil,
		},
	}
	d := WithRetry(stub, zerolog.Nop())

	_, err := d.Request(context.Background(), http.MethodGet, "/api/topics")
	if KindOf(err) != KindServer {
		t.Fatalf("KindOf() = %q, want %q (err=%v)", KindOf(err), KindServer, err)
	}
	if stub.calls != 2 {
		t.Errorf("calls = %d, want exactly 2 (no second retry)", stub.calls)
	}
}

func TestWithRetry_ClientErrorNotRetried(t *testing.T) {
	stub := &stubDoer{
		responses: []*Response{nil},
		errs:      []error{&Error{Kind: KindClient, Status: 400, Message: "bad request"}},
	}
	d := WithRetry(stub, zerolog.Nop())

	_, err := d.Request(context.Background(), http.MethodGet, "/api/topics")
	if KindOf(err) != KindClient {
		t.Fatalf("KindOf() = %q, want %q", KindOf(err), KindClient)
	}
	if stub.calls != 1 {
		t.Errorf("calls = %d, want 1 (client errors never retried)", stub.calls)
	}
}

func TestWithRetry_NetworkErrorRetried(t *testing.T) {
	stub := &stubDoer{
		responses: []*Response{nil, {Status: http.StatusOK, Body: []byte(`{}`)}},
		errs:      []error{&Error{Kind: KindNetwork, Message: "connection refused"}, nil},
	}
	d := WithRetry(stub, zerolog.Nop())

	if _, err := d.Request(context.Background(), http.MethodGet, "/api/topics"); err != nil {
		t.Fatalf("Request() error = %v", err)
	}
	if stub.calls != 2 {
		t.Errorf("calls = %d, want 2", stub.calls)
	}
}

func TestWithRetry_CancelledContextStops(t *testing.T) {
	stub := &stubDoer{
		responses: []*Response{nil},
		errs:      []error{&Error{Kind: KindServer, Status: 500, Message: "flaky"}},
	}
	d := WithRetry(stub, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := d.Request(ctx, http.MethodGet, "/api/topics"); err == nil {
		t.Fatal("Request() with cancelled context should fail")
	}
	if stub.calls > 1 {
		t.Errorf("calls = %d, want at most 1 after cancellation", stub.calls)
	}
}

func TestWithRetry_SuccessPassthrough(t *testing.T) {
	stub := &stubDoer{
		responses: []*Response{{Status: http.StatusOK, Body: []byte(`{}`)}},
		errs:      []error{nil},
	}
	d := WithRetry(stub, zerolog.Nop())

	resp, err := d.Request(context.Background(), http.MethodGet, "/api/topics")
	if err != nil {
		t.Fatalf("Request() error = %v", err)
	}
	if resp.Status != http.StatusOK || stub.calls != 1 {
		t.Errorf("resp=%v calls=%d, want single successful call", resp, stub.calls)
	}
}
