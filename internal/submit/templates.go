package submit

import "strings"

// EndpointTemplate is one candidate wire shape for placing an offer: a path
// with {leagueId}/{listingId} placeholders, an HTTP method, and the payload
// key the endpoint expects the price under ("price" or "prc").
type EndpointTemplate struct {
	Path       string
	Method     string
	PayloadKey string
}

// Expand substitutes the league and listing IDs into the path.
func (t EndpointTemplate) Expand(leagueID, listingID string) string {
	path := strings.ReplaceAll(t.Path, "{leagueId}", leagueID)
	return strings.ReplaceAll(path, "{listingId}", listingID)
}
