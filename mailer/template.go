// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package mailer

import (
	"html/template"
	"log/slog"
	"strings"
)

type assignmentEmailData struct {
	SantaName      string
	TargetName     string
	TargetWishlist *string
	RoomName       string
	ViewURL        string
}

var assignmentTmpl = template.Must(template.New("assignment").Parse(`<!DOCTYPE html>
<html>
  <body style="font-family: sans-serif; color: #1a1a1a;">
    <h2>🎁 {{.RoomName}}</h2>
    <p>Hi {{.SantaName}},</p>
    <p>The draw is done! You are the Secret Santa for <strong>{{.TargetName}}</strong>.</p>
    {{if .TargetWishlist}}
    <p>Their wishlist:</p>
    <blockquote style="border-left: 3px solid #ccc; padding-left: 12px;">{{.TargetWishlist}}</blockquote>
    {{end}}
    <p><a href="{{.ViewURL}}">View your assignment</a></p>
    <p style="color: #888; font-size: 12px;">Keep it secret. Keep it safe.</p>
  </body>
</html>
`))

func renderAssignment(data assignmentEmailData) string {
	var b strings.Builder
	if err := assignmentTmpl.Execute(&b, data); err != nil {
		// Template and data are fully under our control; an execute
		// failure is a bug, but a broken body beats a lost email.
		slog.Error("failed to render assignment email", "error", err)
		return "Your Secret Santa assignment is ready: " + data.ViewURL
	}
	return b.String()
}
