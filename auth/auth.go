// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
)

const (
	// IdentityHeader lets native/API clients carry their token explicitly.
	IdentityHeader = "X-Identity-Token"
	// IdentityCookie is the browser-facing token store.
	IdentityCookie = "santa_token"

	// identityTokenBytes gives 192 bits of entropy, comfortably past the
	// point where a collision or guess is practical.
	identityTokenBytes = 24

	cookieMaxAge = 60 * 60 * 24 * 365 // 1 year
)

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateIdentityToken creates a random secure token identifying a browser.
// The same token doubles as the admin secret for rooms that browser creates.
func GenerateIdentityToken() (string, error) {
	b := make([]byte, identityTokenBytes)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate identity token: %w", err)
	}
	// URL-safe base64 without padding
	return strings.TrimRight(base64.URLEncoding.EncodeToString(b), "="), nil
}

// Identity returns the caller's identity token, minting one if needed.
//
// Resolution order: the X-Identity-Token header, then the santa_token
// cookie. If neither is present a fresh token is generated and set as a
// long-lived cookie, so the first interaction from a browser establishes
// its identity. This function never fails for the caller: if the random
// source errors the error is returned so the handler can 500, but no
// request is ever rejected for lacking a token.
func Identity(w http.ResponseWriter, r *http.Request) (string, error) {
	if token := r.Header.Get(IdentityHeader); token != "" {
		return token, nil
	}

	if c, err := r.Cookie(IdentityCookie); err == nil && c.Value != "" {
		return c.Value, nil
	}

	token, err := GenerateIdentityToken()
	if err != nil {
		return "", err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     IdentityCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   cookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return token, nil
}

// TokensMatch compares two opaque tokens in constant time. Used both for
// invite token checks and for the admin-secret comparison that gates
// organizer actions.
func TokensMatch(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return hmac.Equal([]byte(a), []byte(b))
}
