package controller

import (
	"bytes"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/ziadkadry99/campusmap/internal/directory"
)

const (
	loginPromptText = "Login to view Phone & Email"
	noContactNote   = "No contact details available."
)

// descriptions renders location descriptions. Raw HTML in the source data is
// dropped by goldmark's default renderer.
var descriptions = goldmark.New(goldmark.WithExtensions(extension.Linkify))

func renderDescription(src string) string {
	var buf bytes.Buffer
	if err := descriptions.Convert([]byte(src), &buf); err != nil {
		return "<p>" + html.EscapeString(src) + "</p>"
	}
	return strings.TrimSpace(buf.String())
}

// buildPanel assembles the info panel for loc, gating contacts on loggedIn.
func buildPanel(loc directory.Location, loggedIn bool) InfoPanel {
	p := InfoPanel{
		Name:            loc.Name,
		Category:        loc.Category,
		DescriptionHTML: renderDescription(loc.Description),
		Timing:          loc.Timing,
	}
	if loc.HasImage() {
		p.ImageURL = strings.TrimSpace(loc.ImageURL)
	}

	if !loggedIn {
		p.Login = &LoginPrompt{Text: loginPromptText, LocationName: loc.Name}
		return p
	}

	c := &ContactInfo{}
	if loc.HasPhone() {
		c.Phone = loc.Phone
	}
	switch {
	case len(loc.Email.Departments) > 0:
		c.Departments = loc.Email.Departments
	case !loc.Email.IsEmpty():
		c.Email = loc.Email.Single
	}
	if c.Phone == "" && c.Email == "" && len(c.Departments) == 0 {
		c.Note = noContactNote
	}
	p.Contact = c
	return p
}
