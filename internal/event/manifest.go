// ABOUTME: Event manifest describing the current exchange (title, greeting, phases)
// ABOUTME: Loaded from TOML; the greeting is markdown rendered to HTML at load time

package event

import (
	"bytes"
	"fmt"
	"html/template"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/yuin/goldmark"
)

// Manifest describes one exchange event. The phase toggles let an operator
// close submissions while the draw is still running (the usual end-of-event
// state) without redeploying.
type Manifest struct {
	Title           string `toml:"title"`
	Greeting        string `toml:"greeting"`
	SubmissionsOpen bool   `toml:"submissions_open"`
	DrawOpen        bool   `toml:"draw_open"`

	// GreetingHTML is the greeting rendered from markdown, ready for the
	// listing page.
	GreetingHTML template.HTML `toml:"-"`
}

// Default returns the manifest used when no file is configured: both phases
// open, generic title.
func Default() *Manifest {
	m := &Manifest{
		Title:           "Secret Santa",
		Greeting:        "Write down three presents you wish for, and a place you have never been.",
		SubmissionsOpen: true,
		DrawOpen:        true,
	}
	m.GreetingHTML = renderGreeting(m.Greeting)
	return m
}

// Load reads a manifest from the given TOML file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading event manifest: %w", err)
	}

	var m Manifest
	if _, err := toml.Decode(string(data), &m); err != nil {
		return nil, fmt.Errorf("parsing event manifest: %w", err)
	}

	if m.Title == "" {
		m.Title = "Secret Santa"
	}
	m.GreetingHTML = renderGreeting(m.Greeting)
	return &m, nil
}

// renderGreeting converts markdown to HTML. The greeting comes from the
// operator's own manifest file, so rendering it as HTML is safe.
func renderGreeting(md string) template.HTML {
	if md == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		// Fall back to the raw text, escaped by the template engine upstream.
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}
