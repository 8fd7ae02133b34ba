package permission_test

import (
	"errors"
	"testing"

	"viewtuber/pkg/permission"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		expected  permission.Permission
		shouldErr bool
	}{
		{"Valid write", "video.title:write", permission.Permission{Resource: "video", Field: "title", Access: permission.AccessWrite}, false},
		{"Valid read", "project.requirements:read", permission.Permission{Resource: "project", Field: "requirements", Access: permission.AccessRead}, false},
		{"Missing colon", "video.title", permission.Permission{}, true},
		{"Missing dot", "video:write", permission.Permission{}, true},
		{"Empty resource", ".title:write", permission.Permission{}, true},
		{"Empty field", "video.:write", permission.Permission{}, true},
		{"Bad access", "video.title:delete", permission.Permission{}, true},
		{"Extra colon", "video.title:write:extra", permission.Permission{}, true},
		{"Extra dot", "video.title.more:write", permission.Permission{}, true},
		{"Sentinel is not parseable", "all", permission.Permission{}, true},
		{"Empty string", "", permission.Permission{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := permission.Parse(tt.raw)
			if tt.shouldErr {
				if err == nil {
					t.Fatalf("Parse(%q) expected error, got nil", tt.raw)
				}
				if !errors.Is(err, permission.ErrMalformed) {
					t.Errorf("Parse(%q) error should wrap ErrMalformed, got: %v", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.raw, err)
			}
			if result != tt.expected {
				t.Errorf("Parse(%q) = %+v, expected %+v", tt.raw, result, tt.expected)
			}
		})
	}
}

func TestSetHas(t *testing.T) {
	tests := []struct {
		name     string
		grants   []string
		resource string
		field    string
		access   permission.Access
		expected bool
	}{
		{"Write grant allows write", []string{"video.title:write"}, "video", "title", permission.AccessWrite, true},
		{"Write grant does not imply read", []string{"video.title:write"}, "video", "title", permission.AccessRead, false},
		{"Read grant does not imply write", []string{"video.title:read"}, "video", "title", permission.AccessWrite, false},
		{"Other field denied", []string{"video.title:write"}, "video", "description", permission.AccessWrite, false},
		{"Other resource denied", []string{"video.title:write"}, "project", "title", permission.AccessWrite, false},
		{"Sentinel allows anything", []string{"all"}, "video", "whatever", permission.AccessWrite, true},
		{"Sentinel among grants", []string{"video.title:read", "all"}, "project", "deadline", permission.AccessWrite, true},
		{"Empty set denies", nil, "video", "title", permission.AccessRead, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := permission.NewSet(tt.grants)
			if err != nil {
				t.Fatalf("NewSet(%v) unexpected error: %v", tt.grants, err)
			}
			if got := set.Has(tt.resource, tt.field, tt.access); got != tt.expected {
				t.Errorf("Has(%s, %s, %s) = %v, expected %v", tt.resource, tt.field, tt.access, got, tt.expected)
			}
		})
	}
}

func TestNewSetRejectsMalformedGrant(t *testing.T) {
	_, err := permission.NewSet([]string{"video.title:write", "broken"})
	if !errors.Is(err, permission.ErrMalformed) {
		t.Fatalf("NewSet with malformed grant should fail with ErrMalformed, got: %v", err)
	}
}

func TestHasWithoutSet(t *testing.T) {
	grants := []string{"garbage", "video.title:write"}

	if !permission.Has(grants, "video", "title", permission.AccessWrite) {
		t.Error("Has should match despite a malformed sibling grant")
	}
	if permission.Has(grants, "video", "title", permission.AccessRead) {
		t.Error("Has should not grant read from a write permission")
	}
	if !permission.Has([]string{"all"}, "anything", "at", permission.AccessRead) {
		t.Error("Has should short-circuit on the sentinel")
	}
}

func TestFilterFields(t *testing.T) {
	set, err := permission.NewSet([]string{"video.title:write", "video.description:read"})
	if err != nil {
		t.Fatalf("NewSet unexpected error: %v", err)
	}

	updates := map[string]any{
		"title":       "new title",
		"description": "new description",
		"tags":        []string{"a"},
	}

	allowed := permission.FilterFields(set, "video", updates)

	if len(allowed) != 1 {
		t.Fatalf("expected exactly one permitted field, got %d: %v", len(allowed), allowed)
	}
	if allowed["title"] != "new title" {
		t.Errorf("title should survive the filter, got %v", allowed["title"])
	}
	if _, ok := allowed["description"]; ok {
		t.Error("description has only read access and must be rejected")
	}
}

func TestFilterFieldsSentinel(t *testing.T) {
	set, err := permission.NewSet([]string{"all"})
	if err != nil {
		t.Fatalf("NewSet unexpected error: %v", err)
	}

	updates := map[string]any{"title": "x", "privacyStatus": "private"}
	allowed := permission.FilterFields(set, "video", updates)

	if len(allowed) != len(updates) {
		t.Errorf("sentinel should permit every field, got %v", allowed)
	}
}
