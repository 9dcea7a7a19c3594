// Package templates renders the dashboard pages as templ components.
package templates

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// NavItem is one entry of the top navigation.
type NavItem struct {
	Path  string
	Label string
}

// Nav lists the dashboard pages in display order.
var Nav = []NavItem{
	{Path: "/", Label: "Overview"},
	{Path: "/cpu-monitoring", Label: "CPU Monitoring"},
	{Path: "/lab-monitoring", Label: "Lab Monitoring"},
}

// pageWriter accumulates the first write error so components can emit
// markup without checking every call.
type pageWriter struct {
	w   io.Writer
	err error
}

func (p *pageWriter) raw(s string) {
	if p.err == nil {
		_, p.err = io.WriteString(p.w, s)
	}
}

// text writes s HTML-escaped.
func (p *pageWriter) text(s string) {
	p.raw(templ.EscapeString(s))
}

func (p *pageWriter) rawf(format string, args ...any) {
	p.raw(fmt.Sprintf(format, args...))
}

func (p *pageWriter) textf(format string, args ...any) {
	p.text(fmt.Sprintf(format, args...))
}

func (p *pageWriter) component(ctx context.Context, c templ.Component) {
	if p.err == nil && c != nil {
		p.err = c.Render(ctx, p.w)
	}
}

// Layout wraps body in the page shell. active is the path of the current page.
func Layout(title, active string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &pageWriter{w: w}
		p.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		p.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		p.raw(`<title>`)
		p.text(title)
		p.raw(` | ThermoDash</title><link rel="stylesheet" href="/static/app.css"></head>`)
		p.raw(`<body><header class="topbar"><span class="brand">ThermoDash</span><nav>`)
		for _, item := range Nav {
			class := ""
			if item.Path == active {
				class = ` class="active"`
			}
			p.rawf(`<a href="%s"%s>`, templ.EscapeString(item.Path), class)
			p.text(item.Label)
			p.raw(`</a>`)
		}
		p.raw(`</nav><span id="live-status" class="live-status">offline</span></header><main>`)
		p.component(ctx, body)
		p.raw(`</main><script src="/static/app.js"></script></body></html>`)
		return p.err
	})
}

// statusClass maps a status label to its CSS class.
func statusClass(status string) string {
	return "status-" + strings.ToLower(status)
}

// ErrorAlert renders an inline error box.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &pageWriter{w: w}
		p.raw(`<div class="alert alert-error" role="alert"><strong>`)
		p.text(message)
		p.raw(`</strong>`)
		if action != "" {
			p.raw(` <span>`)
			p.text(action)
			p.raw(`</span>`)
		}
		if code != "" {
			p.raw(` <code>`)
			p.text(code)
			p.raw(`</code>`)
		}
		p.raw(`</div>`)
		return p.err
	})
}
