package kickbase

import (
	"fmt"
	"strconv"
	"strings"
)

// flexInt decodes a JSON number or numeric string into an int64. The upstream
// API has shipped the budget both ways across versions.
type flexInt int64

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	// Some builds send the value as a float (e.g. 1500000.0).
	if strings.ContainsAny(s, ".eE") {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("flexInt: parse %q: %w", s, err)
		}
		*f = flexInt(v)
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("flexInt: parse %q: %w", s, err)
	}
	*f = flexInt(v)
	return nil
}

// flexString decodes a JSON string or number into a string. Listing IDs are
// strings in v4 but were numbers in older API versions.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		unq, err := strconv.Unquote(s)
		if err != nil {
			return fmt.Errorf("flexString: unquote %s: %w", s, err)
		}
		*f = flexString(unq)
		return nil
	}
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return fmt.Errorf("flexString: %q is neither string nor number", s)
	}
	*f = flexString(s)
	return nil
}

// loginRequest is the POST /v4/user/login payload. Field names are the
// upstream contract.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse covers both token/user key spellings the login endpoint has
// used.
type loginResponse struct {
	Token      string `json:"token"`
	TokenShort string `json:"t"`
	User       string `json:"username"`
	UserShort  string `json:"un"`
}

func (r loginResponse) token() string {
	if r.TokenShort != "" {
		return r.TokenShort
	}
	return r.Token
}

func (r loginResponse) userName() string {
	if r.UserShort != "" {
		return r.UserShort
	}
	return r.User
}

// marketListing is one market item as the API ships it. The short field names
// are the literal upstream contract and must be preserved bit-exact.
type marketListing struct {
	ID               flexString `json:"i"`
	FirstName        string     `json:"fn"`
	LastName         string     `json:"n"`
	MarketValue      flexInt    `json:"mv"`
	TrendFlag        int        `json:"mvt"`
	SecondsRemaining flexInt    `json:"exs"`
}

// marketResponse is the GET /v4/leagues/{id}/market body: listings under "it",
// budget under "b".
type marketResponse struct {
	Items  []marketListing `json:"it"`
	Budget flexInt         `json:"b"`
}

// apiError is the upstream error envelope, e.g. {"err":"AccessDenied"}.
type apiError struct {
	Err     string `json:"err"`
	Message string `json:"message"`
}

func (e apiError) String() string {
	switch {
	case e.Err != "" && e.Message != "":
		return e.Err + ": " + e.Message
	case e.Err != "":
		return e.Err
	default:
		return e.Message
	}
}
