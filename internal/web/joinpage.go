package web

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
)

// InvitePage is the data behind the server-rendered circle invite page.
type InvitePage struct {
	CircleName string
	Color      string
	InviteCode string
}

var inviteTmpl = template.Must(template.New("invite").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Join {{.CircleName}} on Grateful</title>
  <meta property="og:title" content="Join {{.CircleName}} on Grateful">
  <meta property="og:description" content="Share gratitude daily with your circle.">
  <meta property="og:image" content="{{.OGImageURL}}">
  <meta name="twitter:card" content="summary_large_image">
</head>
<body style="font-family: system-ui, sans-serif; background: #f5f7f5; margin: 0; padding: 48px 16px; text-align: center;">
  <h1 style="color: #0a660a;">Join {{.CircleName}}</h1>
  <p>Open the Grateful app and enter invite code <strong>{{.InviteCode}}</strong>.</p>
  <p><a href="grateful://join/{{.InviteCode}}" style="color: #0a660a;">Open in app</a></p>
</body>
</html>
`))

var notFoundTmpl = template.Must(template.New("notfound").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>Invite not found</title>
</head>
<body style="font-family: system-ui, sans-serif; text-align: center; padding: 48px 16px;">
  <h1>Invite not found</h1>
  <p>This invite link is no longer valid.</p>
</body>
</html>
`))

// RenderInvitePage renders the invite HTML for a circle found by its code.
func RenderInvitePage(page InvitePage) (string, error) {
	data := struct {
		InvitePage
		OGImageURL string
	}{
		InvitePage: page,
		OGImageURL: fmt.Sprintf("/og-image?type=circle&name=%s&color=%s",
			url.QueryEscape(page.CircleName), url.QueryEscape(page.Color)),
	}
	var buf bytes.Buffer
	if err := inviteTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render invite page: %w", err)
	}
	return buf.String(), nil
}

// RenderInviteNotFound renders the 404 page for unknown invite codes.
func RenderInviteNotFound() string {
	var buf bytes.Buffer
	_ = notFoundTmpl.Execute(&buf, nil)
	return buf.String()
}
