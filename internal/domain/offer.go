package domain

// OfferOutcome is the terminal result of one offer submission.
type OfferOutcome string

const (
	// OfferAccepted means one endpoint template confirmed the bid.
	OfferAccepted OfferOutcome = "accepted"
	// OfferRejected means the upstream gave a definitive rejection
	// (validation, authorization, conflict). No further templates are tried.
	OfferRejected OfferOutcome = "rejected"
	// OfferUnresolved means every endpoint template was exhausted without a
	// success or a definitive rejection.
	OfferUnresolved OfferOutcome = "unresolved"
)

// Offer is one outbound bid: "bid Price on listing ListingID". At most one
// Offer is ever created per listing per run.
type Offer struct {
	ID        string
	ListingID string
	Price     int64
	Outcome   OfferOutcome
	// Reason carries the upstream rejection message for OfferRejected, or a
	// short diagnostic for OfferUnresolved.
	Reason string
	// Attempts is the number of endpoint templates actually tried.
	Attempts int
}
