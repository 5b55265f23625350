// Package compliance turns RDF URIs and UUIDs into identifiers that are
// valid model element names.
package compliance

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// Prefix is prepended to identifiers that would otherwise start with a
// digit or carry UUID punctuation.
const Prefix = "IMF_"

// Policy selects which strings MakeIdentifierCompliant rewrites.
type Policy string

const (
	// PolicyUUID rewrites only strings that parse as version-4 UUIDs.
	PolicyUUID Policy = "uuid"
	// PolicyAlways rewrites every string.
	PolicyAlways Policy = "always"
)

// ParsePolicy validates a policy name. The empty string selects PolicyUUID.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyUUID:
		return PolicyUUID, nil
	case PolicyAlways:
		return PolicyAlways, nil
	default:
		return "", fmt.Errorf("unknown identifier policy %q (want %q or %q)", s, PolicyUUID, PolicyAlways)
	}
}

// Normalizer applies a Policy. The zero value uses PolicyUUID.
type Normalizer struct {
	Policy Policy
}

// StripNamespace returns the local name of a URI: the part after the last
// '#', or after the last '/' when there is no fragment. Strings that are not
// absolute URIs with an authority are returned unchanged. A local name that
// is itself a URI is stripped again.
func StripNamespace(s string) string {
	for isURI(s) {
		if i := strings.LastIndex(s, "#"); i >= 0 {
			s = s[i+1:]
		} else {
			s = s[strings.LastIndex(s, "/")+1:]
		}
	}
	return s
}

func isURI(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// MakeIdentifierCompliant replaces hyphens with underscores and adds Prefix,
// subject to the policy. The result is stable under repeated application.
func (n Normalizer) MakeIdentifierCompliant(s string) string {
	switch n.Policy {
	case PolicyAlways:
		s = strings.ReplaceAll(s, "-", "_")
		if strings.HasPrefix(s, Prefix) {
			return s
		}
		return Prefix + s
	default:
		if !isUUIDv4(s) {
			return s
		}
		return Prefix + strings.ReplaceAll(s, "-", "_")
	}
}

func isUUIDv4(s string) bool {
	// uuid.Parse also accepts the 32-digit form without hyphens and
	// urn/brace wrappers; only the canonical 36-character form is rewritten.
	if len(s) != 36 {
		return false
	}
	id, err := uuid.Parse(s)
	return err == nil && id.Version() == 4
}

// Identifier strips the namespace of s and makes the rest compliant.
func (n Normalizer) Identifier(s string) string {
	return n.MakeIdentifierCompliant(StripNamespace(s))
}
