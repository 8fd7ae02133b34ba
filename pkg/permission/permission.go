// Package permission evaluates the field-level access grants stored on a
// project member. Grants are flat strings of the form "resource.field:access"
// (access is "read" or "write"); the sentinel grant "all" allows everything.
// Sets are small (tens of entries at most) and parsed once per request.
package permission

import (
	"errors"
	"fmt"
	"strings"
)

type Access string

const (
	AccessRead  Access = "read"
	AccessWrite Access = "write"

	// Sentinel grants unconditional access and bypasses parsing entirely.
	Sentinel = "all"
)

var ErrMalformed = errors.New("malformed permission string")

// Permission is one parsed grant.
type Permission struct {
	Resource string
	Field    string
	Access   Access
}

func (p Permission) String() string {
	return fmt.Sprintf("%s.%s:%s", p.Resource, p.Field, string(p.Access))
}

// Parse splits "resource.field:access" into its parts. The sentinel "all" is
// not parseable; callers check for it before parsing.
func Parse(raw string) (Permission, error) {
	scope, access, ok := strings.Cut(raw, ":")
	if !ok || strings.Contains(access, ":") {
		return Permission{}, fmt.Errorf("%w: %q", ErrMalformed, raw)
	}

	resource, field, ok := strings.Cut(scope, ".")
	if !ok || resource == "" || field == "" || strings.Contains(field, ".") {
		return Permission{}, fmt.Errorf("%w: %q", ErrMalformed, raw)
	}

	switch Access(access) {
	case AccessRead, AccessWrite:
	default:
		return Permission{}, fmt.Errorf("%w: %q", ErrMalformed, raw)
	}

	return Permission{Resource: resource, Field: field, Access: Access(access)}, nil
}

// Set holds a member's grants parsed once for the duration of a request.
type Set struct {
	all    bool
	grants map[Permission]struct{}
}

// NewSet parses every grant in the list. A single malformed string fails the
// whole set rather than silently dropping the grant.
func NewSet(grants []string) (Set, error) {
	s := Set{grants: make(map[Permission]struct{}, len(grants))}
	for _, raw := range grants {
		if raw == Sentinel {
			s.all = true
			continue
		}
		p, err := Parse(raw)
		if err != nil {
			return Set{}, err
		}
		s.grants[p] = struct{}{}
	}
	return s, nil
}

// Has reports whether the set allows the given access on resource.field.
func (s Set) Has(resource, field string, access Access) bool {
	if s.all {
		return true
	}
	_, ok := s.grants[Permission{Resource: resource, Field: field, Access: access}]
	return ok
}

// Has evaluates raw grants without building a Set. Malformed strings simply
// never match; use NewSet when parse errors must surface.
func Has(grants []string, resource, field string, access Access) bool {
	for _, raw := range grants {
		if raw == Sentinel {
			return true
		}
		p, err := Parse(raw)
		if err != nil {
			continue
		}
		if p.Resource == resource && p.Field == field && p.Access == access {
			return true
		}
	}
	return false
}

// FilterFields keeps only the entries of updates whose field the set may
// write on the given resource. The caller decides what an empty result means;
// video updates treat it as a hard failure, not a no-op.
func FilterFields(s Set, resource string, updates map[string]any) map[string]any {
	allowed := make(map[string]any, len(updates))
	for field, value := range updates {
		if s.Has(resource, field, AccessWrite) {
			allowed[field] = value
		}
	}
	return allowed
}
