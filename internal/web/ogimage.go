package web

import (
	"fmt"
	"strings"
)

// CircleColors are the named colors the app offers for circles, mapped to
// their hex values for share images.
var CircleColors = map[string]string{
	"green":  "#0a660a",
	"blue":   "#2563eb",
	"purple": "#7c3aed",
	"pink":   "#db2777",
	"red":    "#dc2626",
	"orange": "#ea580c",
	"yellow": "#ca8a04",
	"teal":   "#0d9488",
	"brown":  "#92400e",
	"gray":   "#6b7280",
}

// darkerShade returns the color at 70% brightness for the gradient top.
func darkerShade(hex string) string {
	if len(hex) != 7 || hex[0] != '#' {
		return hex
	}
	var r, g, b int
	if _, err := fmt.Sscanf(hex[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
		return hex
	}
	darker := func(v int) int { return v * 7 / 10 }
	return fmt.Sprintf("#%02x%02x%02x", darker(r), darker(g), darker(b))
}

var svgEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// CircleInviteSVG renders the 1200x630 share card for a circle invite link.
func CircleInviteSVG(circleName, circleColor string) string {
	color, ok := CircleColors[circleColor]
	if !ok {
		color = CircleColors["green"]
	}
	darkerColor := darkerShade(color)
	escapedName := svgEscaper.Replace(circleName)

	return strings.TrimSpace(fmt.Sprintf(`
<svg width="1200" height="630" viewBox="0 0 1200 630" xmlns="http://www.w3.org/2000/svg">
  <defs>
    <linearGradient id="bgGradient" x1="0%%" y1="0%%" x2="0%%" y2="100%%">
      <stop offset="0%%" style="stop-color:%s;stop-opacity:1" />
      <stop offset="100%%" style="stop-color:%s;stop-opacity:1" />
    </linearGradient>
    <style>
      .title { font-family: system-ui, -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif; font-weight: 700; }
      .subtitle { font-family: system-ui, -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif; font-weight: 400; }
      .branding { font-family: system-ui, -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif; font-weight: 600; }
    </style>
  </defs>

  <rect width="1200" height="630" fill="url(#bgGradient)"/>

  <g transform="translate(600, 315)">
    <g transform="translate(0, -100)">
      <circle cx="0" cy="0" r="50" fill="rgba(255,255,255,0.15)"/>
      <g transform="translate(-30, -30) scale(2.5)">
        <path stroke-linecap="round" stroke-linejoin="round" stroke="white" stroke-width="2" fill="none" d="M17 20h5v-2a3 3 0 00-5.356-1.857M17 20H7m10 0v-2c0-.656-.126-1.283-.356-1.857M7 20H2v-2a3 3 0 015.356-1.857M7 20v-2c0-.656.126-1.283.356-1.857m0 0a5.002 5.002 0 019.288 0M15 7a3 3 0 11-6 0 3 3 0 016 0zm6 3a2 2 0 11-4 0 2 2 0 014 0zM7 10a2 2 0 11-4 0 2 2 0 014 0z" />
      </g>
    </g>

    <text x="0" y="0" class="subtitle" font-size="28" fill="rgba(255,255,255,0.9)" text-anchor="middle">
      Join
    </text>

    <text x="0" y="55" class="title" font-size="56" fill="white" text-anchor="middle" letter-spacing="-0.02em">
      %s
    </text>

    <g transform="translate(0, 130)">
      <text x="0" y="0" class="branding" font-size="18" fill="rgba(255,255,255,0.7)" text-anchor="middle">
        grateful.so
      </text>
    </g>
  </g>
</svg>`, darkerColor, color, escapedName))
}

// DefaultSVG renders the generic share card used when no type is requested.
func DefaultSVG() string {
	return strings.TrimSpace(`
<svg width="1200" height="630" viewBox="0 0 1200 630" xmlns="http://www.w3.org/2000/svg">
  <defs>
    <linearGradient id="bgGradient" x1="0%" y1="0%" x2="0%" y2="100%">
      <stop offset="0%" style="stop-color:#0a660a;stop-opacity:1" />
      <stop offset="100%" style="stop-color:#2d8659;stop-opacity:1" />
    </linearGradient>
    <style>
      .quote { font-family: system-ui, -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif; font-weight: 400; }
      .attribution { font-family: system-ui, -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif; font-weight: 400; }
      .tagline { font-family: system-ui, -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif; font-weight: 400; }
      .domain { font-family: system-ui, -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif; font-weight: 400; }
    </style>
  </defs>

  <rect width="1200" height="630" fill="url(#bgGradient)"/>

  <g transform="translate(600, 200)">
    <text x="0" y="0" class="quote" font-size="40" fill="white" text-anchor="middle" letter-spacing="-0.01em">
      "Great weather"
    </text>

    <text x="0" y="80" class="attribution" font-size="18" fill="rgba(255,255,255,0.8)" text-anchor="middle">
      Rahul • Dec 30
    </text>

    <text x="0" y="110" class="attribution" font-size="18" fill="rgba(255,255,255,0.8)" text-anchor="middle">
      Cancún, Mexico
    </text>
  </g>

  <line x1="300" y1="420" x2="900" y2="420" stroke="rgba(255,255,255,0.5)" stroke-width="1"/>

  <g transform="translate(600, 480)">
    <text x="0" y="0" class="tagline" font-size="14" fill="rgba(255,255,255,0.9)" text-anchor="middle">
      Share gratitude daily
    </text>

    <g transform="translate(0, 35)">
      <g transform="translate(-60, -12) scale(0.8)">
        <path d="M11.525 2.295a.53.53 0 0 1 .95 0l2.31 4.679a2.123 2.123 0 0 0 1.595 1.16l5.166.756a.53.53 0 0 1 .294.904l-3.736 3.638a2.123 2.123 0 0 0-.611 1.878l.882 5.14a.53.53 0 0 1-.771.56l-4.618-2.428a2.122 2.122 0 0 0-1.973 0L6.396 21.01a.53.53 0 0 1-.77-.56l.881-5.139a2.122 2.122 0 0 0-.611-1.879L2.16 9.795a.53.53 0 0 1 .294-.906l5.165-.755a2.122 2.122 0 0 0 1.597-1.16z"
              fill="white"
              opacity="0.9"/>
      </g>
      <text x="20" y="5" class="domain" font-size="12" fill="rgba(255,255,255,0.8)" text-anchor="start">
        grateful.so
      </text>
    </g>
  </g>
</svg>`)
}
