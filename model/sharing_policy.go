package model

import "strings"

// SharingPolicy is the replication mode of a cache entry across a cluster.
type SharingPolicy int

const (
	NotShared      SharingPolicy = 1
	SharedPush     SharingPolicy = 2
	SharedPull     SharingPolicy = 3
	SharedPushPull SharingPolicy = 4
)

var sharingPolicies = map[string]SharingPolicy{
	"not-shared":       NotShared,
	"shared-push":      SharedPush,
	"shared-pull":      SharedPull,
	"shared-push-pull": SharedPushPull,
}

// ParseSharingPolicy maps the document spelling to a SharingPolicy.
// Unknown input yields NotShared and false.
func ParseSharingPolicy(s string) (SharingPolicy, bool) {
	p, ok := sharingPolicies[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return NotShared, false
	}
	return p, true
}

func (p SharingPolicy) String() string {
	switch p {
	case SharedPush:
		return "shared-push"
	case SharedPull:
		return "shared-pull"
	case SharedPushPull:
		return "shared-push-pull"
	default:
		return "not-shared"
	}
}

func (p SharingPolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}
