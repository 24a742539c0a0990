package web

import (
	"strings"
	"testing"
)

func TestCircleInviteSVGEscapesName(t *testing.T) {
	svg := CircleInviteSVG(`Tom & "Jerry" <3`, "blue")

	if !strings.Contains(svg, "Tom &amp; &quot;Jerry&quot; &lt;3") {
		t.Errorf("name not escaped: %s", svg)
	}
	if strings.Contains(svg, `"Jerry"`) {
		t.Errorf("raw quotes leaked into SVG")
	}
	if !strings.Contains(svg, CircleColors["blue"]) {
		t.Errorf("circle color missing from gradient")
	}
}

func TestCircleInviteSVGUnknownColorFallsBackToGreen(t *testing.T) {
	svg := CircleInviteSVG("Morning Crew", "chartreuse")
	if !strings.Contains(svg, CircleColors["green"]) {
		t.Errorf("unknown color must fall back to green")
	}
}

func TestCircleInviteSVGDimensions(t *testing.T) {
	svg := CircleInviteSVG("Morning Crew", "green")
	if !strings.Contains(svg, `width="1200" height="630"`) {
		t.Errorf("share card must be 1200x630")
	}
}

func TestDarkerShade(t *testing.T) {
	cases := []struct{ in, want string }{
		{"#ffffff", "#b2b2b2"},
		{"#0a660a", "#074707"},
		{"not-a-hex", "not-a-hex"},
		{"#fff", "#fff"},
	}
	for _, tc := range cases {
		if got := darkerShade(tc.in); got != tc.want {
			t.Errorf("darkerShade(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRenderInvitePageEscapesEverything(t *testing.T) {
	page, err := RenderInvitePage(InvitePage{
		CircleName: "Tom & Jerry",
		Color:      "blue",
		InviteCode: "ABC123",
	})
	if err != nil {
		t.Fatalf("RenderInvitePage: %v", err)
	}

	if !strings.Contains(page, "Tom &amp; Jerry") {
		t.Errorf("circle name not HTML-escaped")
	}
	if !strings.Contains(page, "ABC123") {
		t.Errorf("invite code missing")
	}
	// html/template entity-escapes "+" inside attribute values.
	if !strings.Contains(page, "/og-image?type=circle&amp;name=Tom&#43;%26&#43;Jerry&amp;color=blue") {
		t.Errorf("og:image URL missing or unescaped: %s", page)
	}
}

func TestRenderInviteNotFound(t *testing.T) {
	page := RenderInviteNotFound()
	if !strings.Contains(page, "Invite not found") {
		t.Errorf("not-found page = %q", page)
	}
}
