// Package views renders the layout shell and the tool pages. The pages are presentation only: their
// data is fetched by the browser from the /ui-api endpoints named in each page's data-source attribute.
package views

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// Link is one entry of the navigation menu.
type Link struct {
	Path   string
	Title  string
	Active bool
}

// Layout is the shell every page is rendered in.
func Layout(title string, links []Link, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html><html><head><meta charset="utf-8"><title>%s</title>`+
			`<link rel="stylesheet" href="/static/app.css"></head><body><nav class="sidebar"><ul>`,
			templ.EscapeString(title)); err != nil {
			return err
		}

		for _, l := range links {
			class := ""
			if l.Active {
				class = ` class="active"`
			}
			if _, err := fmt.Fprintf(w, `<li%s><a href="%s">%s</a></li>`,
				class, templ.EscapeString(l.Path), templ.EscapeString(l.Title)); err != nil {
				return err
			}
		}

		if _, err := io.WriteString(w, `</ul></nav><main>`); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</main><script src="/static/app.js"></script></body></html>`)
		return err
	})
}

// tool renders a page whose results are loaded from source.
func tool(id, title, source string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<section id="%s" class="tool"><h1>%s</h1>`+
			`<form class="query" data-source="%s"></form><div class="results" aria-live="polite"></div></section>`,
			templ.EscapeString(id), templ.EscapeString(title), templ.EscapeString(source))
		return err
	})
}

func Ipv6Detection(title string) templ.Component {
	return tool("ipv6-detection", title, "/ui-api/ipv6/detection")
}

func TopologyDetection(title string) templ.Component {
	return tool("topology-detection", title, "/ui-api/topology/detection")
}

func RouterTags(title string) templ.Component {
	return tool("router-tags", title, "/ui-api/tags/router")
}

func OrganizationTags(title string) templ.Component {
	return tool("organization-tags", title, "/ui-api/tags/organization")
}

func KnowledgeGraph(title string) templ.Component {
	return tool("knowledge-graph", title, "/ui-api/knowledge-graph")
}
