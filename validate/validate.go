// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package validate

import (
	"regexp"
	"strings"
)

const (
	nameMinLen     = 2
	nameMaxLen     = 50
	emailMaxLen    = 100
	wishlistMaxLen = 500
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FieldErrors maps a field name to its error messages.
type FieldErrors map[string][]string

func (e FieldErrors) add(field, msg string) {
	e[field] = append(e[field], msg)
}

// OK reports whether no field failed.
func (e FieldErrors) OK() bool {
	return len(e) == 0
}

// ParticipantInput is a validated, trimmed join or add-participant
// submission. Email and Wishlist are nil when absent (or, for Wishlist,
// when the room disallows wishlists).
type ParticipantInput struct {
	Name     string
	Email    *string
	Wishlist *string
}

// RoomName validates a room name: required, trimmed, 2-50 chars.
// Room names follow the same rules as participant names.
func RoomName(name string) (string, FieldErrors) {
	errs := FieldErrors{}
	trimmed := checkName(name, errs)
	if !errs.OK() {
		return "", errs
	}
	return trimmed, errs
}

// ParticipantForm validates a join/add submission against the room's
// configuration flags. Email is required when the room demands it, and
// must be well-formed whenever present. Wishlist input is discarded
// entirely for rooms that disallow wishlists.
func ParticipantForm(name, email, wishlist string, allowWishlist, requireEmail bool) (ParticipantInput, FieldErrors) {
	errs := FieldErrors{}
	input := ParticipantInput{}

	input.Name = checkName(name, errs)

	email = strings.TrimSpace(email)
	switch {
	case email == "" && requireEmail:
		errs.add("email", "email is required")
	case email == "":
		// optional and absent
	case len(email) > emailMaxLen:
		errs.add("email", "maximum 100 characters")
	case !emailRe.MatchString(email):
		errs.add("email", "invalid email address")
	default:
		input.Email = &email
	}

	wishlist = strings.TrimSpace(wishlist)
	if allowWishlist && wishlist != "" {
		if len(wishlist) > wishlistMaxLen {
			errs.add("wishlist", "maximum 500 characters")
		} else {
			input.Wishlist = &wishlist
		}
	}

	if !errs.OK() {
		return ParticipantInput{}, errs
	}
	return input, errs
}

func checkName(name string, errs FieldErrors) string {
	trimmed := strings.TrimSpace(name)
	switch {
	case trimmed == "":
		errs.add("name", "name is required")
	case len([]rune(trimmed)) < nameMinLen:
		errs.add("name", "minimum 2 characters")
	case len([]rune(trimmed)) > nameMaxLen:
		errs.add("name", "maximum 50 characters")
	}
	return trimmed
}
