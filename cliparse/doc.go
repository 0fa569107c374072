// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles server configuration.

Settings come from CLI flags with environment-variable fallback; main
loads a .env file first so local development needs neither. DATABASE_URL
is the only required setting. RESEND_API_KEY is optional - without it
the server runs with email notifications disabled.
*/
package cliparse
