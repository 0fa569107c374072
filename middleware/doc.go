// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP helpers shared by all handlers:
request logging, CORS, JSON body parsing, and the JSON response and
error envelope writers. Validation failures get their own writer that
attaches per-field messages to the standard error envelope.
*/
package middleware
