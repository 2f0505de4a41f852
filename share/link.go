// Package share encodes a forest into a shareable link and back. The
// compact bracket serialization travels percent-encoded in the "i" query
// parameter; "tree" is accepted on decode for older links.
package share

import (
	"fmt"
	"net/url"

	"syntree/bracket"
	"syntree/tree"
)

// Param is the query parameter carrying the diagram.
const Param = "i"

// LegacyParam is the older parameter name still accepted on decode.
const LegacyParam = "tree"

// Encode returns the forest's compact serialization as a query string
// fragment, e.g. "i=%5BS%20...%5D".
func Encode(f *tree.Forest) string {
	v := url.Values{}
	v.Set(Param, bracket.Serialize(f, bracket.DefaultOptions()))
	return v.Encode()
}

// EncodeURL attaches the forest to a base URL, replacing any diagram
// parameter already present.
func EncodeURL(base string, f *tree.Forest) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("bad base url: %w", err)
	}
	q := u.Query()
	q.Del(LegacyParam)
	q.Set(Param, bracket.Serialize(f, bracket.DefaultOptions()))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Decode extracts the bracket text carried by a link or bare query string.
// Returns ok=false when neither parameter is present.
func Decode(link string) (text string, ok bool) {
	u, err := url.Parse(link)
	if err != nil {
		return "", false
	}
	q := u.Query()
	if q.Has(Param) {
		return q.Get(Param), true
	}
	if q.Has(LegacyParam) {
		return q.Get(LegacyParam), true
	}
	// A bare query string with no '?' parses as a path; retry as query.
	if u.RawQuery == "" && u.Path != "" {
		if v, err := url.ParseQuery(u.Path); err == nil {
			if v.Has(Param) {
				return v.Get(Param), true
			}
			if v.Has(LegacyParam) {
				return v.Get(LegacyParam), true
			}
		}
	}
	return "", false
}
