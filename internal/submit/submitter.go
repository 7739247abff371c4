// Package submit places bids against an upstream API whose exact offer
// endpoint shape is not reliably known. It probes an ordered list of endpoint
// templates and stops on the first success or the first definitive rejection.
package submit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"kickbid/internal/domain"
)

// Requester issues one raw HTTP request and returns the status and body
// without interpreting the status code. Implemented by the kickbase client.
type Requester interface {
	Do(ctx context.Context, method, path string, payload any) (int, []byte, error)
}

// Config holds the submitter's endpoint templates and status code sets.
type Config struct {
	Templates        []EndpointTemplate
	SuccessStatuses  []int
	MismatchStatuses []int
}

// Submitter attempts to place a bid through the configured endpoint
// templates, in priority order.
type Submitter struct {
	requester Requester
	leagueID  string
	templates []EndpointTemplate
	success   map[int]bool
	mismatch  map[int]bool
	logger    *slog.Logger
}

// New creates a Submitter bound to one league.
func New(requester Requester, leagueID string, cfg Config, logger *slog.Logger) *Submitter {
	success := make(map[int]bool, len(cfg.SuccessStatuses))
	for _, s := range cfg.SuccessStatuses {
		success[s] = true
	}
	mismatch := make(map[int]bool, len(cfg.MismatchStatuses))
	for _, s := range cfg.MismatchStatuses {
		mismatch[s] = true
	}
	return &Submitter{
		requester: requester,
		leagueID:  leagueID,
		templates: cfg.Templates,
		success:   success,
		mismatch:  mismatch,
		logger:    logger.With(slog.String("component", "submitter")),
	}
}

// Submit attempts to place a bid of price on the given listing and reports
// the outcome. Templates are tried in order:
//
//   - a success status stops probing and reports accepted;
//   - a mismatch status ("this endpoint doesn't apply": not-found,
//     method-not-allowed) falls through to the next template;
//   - any other status is a definitive upstream rejection - stop immediately
//     without probing further, since retrying structurally identical requests
//     elsewhere would not help and could trip abuse protections;
//   - a transport error or timeout counts as that one template failing and
//     falls through;
//   - exhausting every template reports unresolved.
func (s *Submitter) Submit(ctx context.Context, listingID string, price int64) domain.Offer {
	offer := domain.Offer{
		ID:        uuid.New().String(),
		ListingID: listingID,
		Price:     price,
	}

	var lastErr error
	for i, tpl := range s.templates {
		path := tpl.Expand(s.leagueID, listingID)
		payload := map[string]int64{tpl.PayloadKey: price}

		status, body, err := s.requester.Do(ctx, tpl.Method, path, payload)
		offer.Attempts = i + 1
		if err != nil {
			s.logger.Warn("offer attempt failed",
				slog.String("listing", listingID),
				slog.String("path", path),
				slog.String("error", err.Error()),
			)
			lastErr = err
			continue
		}

		switch {
		case s.success[status]:
			offer.Outcome = domain.OfferAccepted
			s.logger.Info("offer accepted",
				slog.String("listing", listingID),
				slog.Int64("price", price),
				slog.String("path", path),
				slog.Int("attempts", offer.Attempts),
			)
			return offer

		case s.mismatch[status]:
			s.logger.Debug("endpoint shape mismatch, trying next",
				slog.String("listing", listingID),
				slog.String("path", path),
				slog.Int("status", status),
			)
			continue

		default:
			offer.Outcome = domain.OfferRejected
			offer.Reason = rejectionReason(status, body)
			s.logger.Warn("offer rejected",
				slog.String("listing", listingID),
				slog.Int64("price", price),
				slog.Int("status", status),
				slog.String("reason", offer.Reason),
			)
			return offer
		}
	}

	offer.Outcome = domain.OfferUnresolved
	if lastErr != nil {
		offer.Reason = fmt.Sprintf("no endpoint accepted the offer (last error: %v)", lastErr)
	} else {
		offer.Reason = "no endpoint accepted the offer"
	}
	s.logger.Warn("offer unresolved",
		slog.String("listing", listingID),
		slog.Int64("price", price),
		slog.Int("attempts", offer.Attempts),
	)
	return offer
}

// rejectionReason extracts the upstream error message from a definitive
// rejection, falling back to the HTTP status text.
func rejectionReason(status int, body []byte) string {
	var apiErr struct {
		Err     string `json:"err"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &apiErr); err == nil {
		if apiErr.Err != "" {
			return apiErr.Err
		}
		if apiErr.Message != "" {
			return apiErr.Message
		}
	}
	return fmt.Sprintf("HTTP %d %s", status, http.StatusText(status))
}
