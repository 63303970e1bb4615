package models

import (
	"fmt"
	"strings"

	id "veriflow/pkg/domain"
)

// KeyPrefix namespaces bucket keys by the kind of identifier they count.
type KeyPrefix string

const KeyPrefixUser KeyPrefix = "user"

// RateLimitKey identifies one sliding window bucket.
type RateLimitKey struct {
	prefix     KeyPrefix
	identifier string
	class      EndpointClass
}

// NewUserRateLimitKey builds the bucket key for an actor and endpoint class.
func NewUserRateLimitKey(userID id.UserID, class EndpointClass) RateLimitKey {
	return RateLimitKey{prefix: KeyPrefixUser, identifier: userID.String(), class: class}
}

func (k RateLimitKey) String() string {
	return fmt.Sprintf("ratelimit:%s:%s:%s", k.prefix, SanitizeKeySegment(k.identifier), SanitizeKeySegment(string(k.class)))
}

// SanitizeKeySegment escapes delimiter characters in rate limit key segments
// so an identifier containing ':' cannot address a neighbouring bucket.
func SanitizeKeySegment(s string) string {
	return strings.ReplaceAll(s, ":", "_")
}
