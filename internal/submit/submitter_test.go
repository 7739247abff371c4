package submit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"kickbid/internal/domain"
)

// scriptedRequester replays a fixed sequence of responses and records every
// request it receives.
type scriptedRequester struct {
	responses []scriptedResponse
	calls     []recordedCall
}

type scriptedResponse struct {
	status int
	body   string
	err    error
}

type recordedCall struct {
	method  string
	path    string
	payload any
}

func (r *scriptedRequester) Do(_ context.Context, method, path string, payload any) (int, []byte, error) {
	r.calls = append(r.calls, recordedCall{method: method, path: path, payload: payload})
	i := len(r.calls) - 1
	if i >= len(r.responses) {
		return 0, nil, errors.New("scriptedRequester: out of responses")
	}
	resp := r.responses[i]
	return resp.status, []byte(resp.body), resp.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() Config {
	return Config{
		Templates: []EndpointTemplate{
			{Path: "/v4/leagues/{leagueId}/market/{listingId}/offers", Method: "POST", PayloadKey: "price"},
			{Path: "/leagues/{leagueId}/market/{listingId}/offers", Method: "POST", PayloadKey: "price"},
			{Path: "/v4/leagues/{leagueId}/market/{listingId}/offers", Method: "PUT", PayloadKey: "prc"},
		},
		SuccessStatuses:  []int{200, 201},
		MismatchStatuses: []int{404, 405, 410},
	}
}

func TestSubmit_FallbackThenAccepted(t *testing.T) {
	req := &scriptedRequester{responses: []scriptedResponse{
		{status: 404},
		{status: 405},
		{status: 200, body: `{}`},
	}}
	s := New(req, "league-1", testConfig(), testLogger())

	offer := s.Submit(context.Background(), "listing-9", 1_000_002)

	if offer.Outcome != domain.OfferAccepted {
		t.Fatalf("outcome = %s, want accepted", offer.Outcome)
	}
	if offer.Attempts != 3 {
		t.Errorf("attempts = %d, want 3", offer.Attempts)
	}
	if len(req.calls) != 3 {
		t.Fatalf("requests = %d, want 3", len(req.calls))
	}

	// Templates must be tried in priority order with IDs substituted.
	wantPaths := []string{
		"/v4/leagues/league-1/market/listing-9/offers",
		"/leagues/league-1/market/listing-9/offers",
		"/v4/leagues/league-1/market/listing-9/offers",
	}
	wantMethods := []string{"POST", "POST", "PUT"}
	for i, call := range req.calls {
		if call.path != wantPaths[i] {
			t.Errorf("call %d path = %s, want %s", i, call.path, wantPaths[i])
		}
		if call.method != wantMethods[i] {
			t.Errorf("call %d method = %s, want %s", i, call.method, wantMethods[i])
		}
	}

	// The last template carries the price under its own payload key.
	last, ok := req.calls[2].payload.(map[string]int64)
	if !ok {
		t.Fatalf("unexpected payload type %T", req.calls[2].payload)
	}
	if last["prc"] != 1_000_002 {
		t.Errorf(`payload["prc"] = %d, want 1_000_002`, last["prc"])
	}
}

func TestSubmit_DefinitiveRejectionAbortsImmediately(t *testing.T) {
	req := &scriptedRequester{responses: []scriptedResponse{
		{status: 400, body: `{"err":"NotEnoughBudget"}`},
	}}
	s := New(req, "league-1", testConfig(), testLogger())

	offer := s.Submit(context.Background(), "listing-9", 500)

	if offer.Outcome != domain.OfferRejected {
		t.Fatalf("outcome = %s, want rejected", offer.Outcome)
	}
	if offer.Attempts != 1 {
		t.Errorf("attempts = %d, want 1 (no fallback probing after a definitive rejection)", offer.Attempts)
	}
	if len(req.calls) != 1 {
		t.Errorf("requests = %d, want 1", len(req.calls))
	}
	if offer.Reason != "NotEnoughBudget" {
		t.Errorf("reason = %q, want upstream error message", offer.Reason)
	}
}

func TestSubmit_ServerErrorAborts(t *testing.T) {
	req := &scriptedRequester{responses: []scriptedResponse{
		{status: 404},
		{status: 500, body: `oops`},
	}}
	s := New(req, "league-1", testConfig(), testLogger())

	offer := s.Submit(context.Background(), "listing-9", 500)

	if offer.Outcome != domain.OfferRejected {
		t.Fatalf("outcome = %s, want rejected", offer.Outcome)
	}
	if offer.Attempts != 2 {
		t.Errorf("attempts = %d, want 2", offer.Attempts)
	}
	if offer.Reason != "HTTP 500 Internal Server Error" {
		t.Errorf("reason = %q", offer.Reason)
	}
}

func TestSubmit_AllMismatchesUnresolved(t *testing.T) {
	req := &scriptedRequester{responses: []scriptedResponse{
		{status: 404},
		{status: 410},
		{status: 405},
	}}
	s := New(req, "league-1", testConfig(), testLogger())

	offer := s.Submit(context.Background(), "listing-9", 500)

	if offer.Outcome != domain.OfferUnresolved {
		t.Fatalf("outcome = %s, want unresolved", offer.Outcome)
	}
	if offer.Attempts != 3 {
		t.Errorf("attempts = %d, want 3", offer.Attempts)
	}
}

func TestSubmit_TransportErrorFallsThrough(t *testing.T) {
	req := &scriptedRequester{responses: []scriptedResponse{
		{err: errors.New("dial tcp: i/o timeout")},
		{status: 201, body: `{}`},
	}}
	s := New(req, "league-1", testConfig(), testLogger())

	offer := s.Submit(context.Background(), "listing-9", 500)

	if offer.Outcome != domain.OfferAccepted {
		t.Fatalf("outcome = %s, want accepted after transport-error fallthrough", offer.Outcome)
	}
	if offer.Attempts != 2 {
		t.Errorf("attempts = %d, want 2", offer.Attempts)
	}
}

func TestSubmit_TransportErrorOnLastTemplateUnresolved(t *testing.T) {
	req := &scriptedRequester{responses: []scriptedResponse{
		{status: 404},
		{status: 404},
		{err: errors.New("context deadline exceeded")},
	}}
	s := New(req, "league-1", testConfig(), testLogger())

	offer := s.Submit(context.Background(), "listing-9", 500)

	if offer.Outcome != domain.OfferUnresolved {
		t.Fatalf("outcome = %s, want unresolved", offer.Outcome)
	}
	if offer.Reason == "" {
		t.Error("expected reason to mention the last transport error")
	}
}
