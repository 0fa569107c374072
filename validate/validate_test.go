// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package validate

import (
	"strings"
	"testing"
)

func TestRoomName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantName string
		wantErr  bool
	}{
		{"valid name", "Office Party", "Office Party", false},
		{"trims whitespace", "  Family 2025  ", "Family 2025", false},
		{"two chars minimum ok", "Ho", "Ho", false},
		{"empty", "", "", true},
		{"only whitespace", "   ", "", true},
		{"one char", "X", "", true},
		{"51 chars", strings.Repeat("a", 51), "", true},
		{"50 chars ok", strings.Repeat("a", 50), strings.Repeat("a", 50), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errs := RoomName(tt.input)
			if tt.wantErr {
				if errs.OK() {
					t.Fatalf("Expected name error, got none (%q)", got)
				}
				if _, ok := errs["name"]; !ok {
					t.Errorf("Expected error on field 'name', got %v", errs)
				}
				return
			}
			if !errs.OK() {
				t.Fatalf("Unexpected errors: %v", errs)
			}
			if got != tt.wantName {
				t.Errorf("Expected %q, got %q", tt.wantName, got)
			}
		})
	}
}

func TestParticipantForm(t *testing.T) {
	tests := []struct {
		name          string
		inName        string
		inEmail       string
		inWishlist    string
		allowWishlist bool
		requireEmail  bool
		wantErrField  string // empty means valid
		wantEmail     *string
		wantWishlist  *string
	}{
		{
			name:   "name only, nothing required",
			inName: "Alice",
		},
		{
			name:         "missing required email",
			inName:       "Alice",
			requireEmail: true,
			wantErrField: "email",
		},
		{
			name:         "blank required email",
			inName:       "Alice",
			inEmail:      "   ",
			requireEmail: true,
			wantErrField: "email",
		},
		{
			name:         "required email present",
			inName:       "Alice",
			inEmail:      "alice@example.com",
			requireEmail: true,
			wantEmail:    ptr("alice@example.com"),
		},
		{
			name:         "optional email still format checked",
			inName:       "Bob",
			inEmail:      "not-an-email",
			wantErrField: "email",
		},
		{
			name:         "email over 100 chars",
			inName:       "Bob",
			inEmail:      strings.Repeat("a", 95) + "@example.com",
			wantErrField: "email",
		},
		{
			name:          "wishlist kept when allowed",
			inName:        "Carol",
			inWishlist:    "  socks, a good book  ",
			allowWishlist: true,
			wantWishlist:  ptr("socks, a good book"),
		},
		{
			name:       "wishlist dropped when disallowed",
			inName:     "Carol",
			inWishlist: "socks",
			// allowWishlist false: wishlist must come back nil, not error
		},
		{
			name:          "wishlist over 500 chars",
			inName:        "Carol",
			inWishlist:    strings.Repeat("x", 501),
			allowWishlist: true,
			wantErrField:  "wishlist",
		},
		{
			name:         "short name",
			inName:       "A",
			wantErrField: "name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, errs := ParticipantForm(tt.inName, tt.inEmail, tt.inWishlist, tt.allowWishlist, tt.requireEmail)

			if tt.wantErrField != "" {
				if errs.OK() {
					t.Fatal("Expected validation errors, got none")
				}
				if _, ok := errs[tt.wantErrField]; !ok {
					t.Errorf("Expected error on field %q, got %v", tt.wantErrField, errs)
				}
				return
			}

			if !errs.OK() {
				t.Fatalf("Unexpected errors: %v", errs)
			}
			if !strPtrEq(input.Email, tt.wantEmail) {
				t.Errorf("Email: expected %v, got %v", strPtrVal(tt.wantEmail), strPtrVal(input.Email))
			}
			if !strPtrEq(input.Wishlist, tt.wantWishlist) {
				t.Errorf("Wishlist: expected %v, got %v", strPtrVal(tt.wantWishlist), strPtrVal(input.Wishlist))
			}
		})
	}
}

func TestParticipantFormCollectsMultipleErrors(t *testing.T) {
	_, errs := ParticipantForm("", "bad-email", "", true, false)
	if errs.OK() {
		t.Fatal("Expected errors")
	}
	if _, ok := errs["name"]; !ok {
		t.Error("Expected name error")
	}
	if _, ok := errs["email"]; !ok {
		t.Error("Expected email error")
	}
}

func ptr(s string) *string { return &s }

func strPtrEq(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func strPtrVal(p *string) string {
	if p == nil {
		return "<nil>"
	}
	return *p
}
