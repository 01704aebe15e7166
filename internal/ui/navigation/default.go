package navigation

import (
	"github.com/a-h/templ"
	"golang.org/x/text/language"

	"github.com/netprobe/netprobe-ui/internal/i18n"
	"github.com/netprobe/netprobe-ui/internal/ui/views"
)

// DefaultRedirect is where "/" sends the browser.
const DefaultRedirect = "/router-tags"

// Default returns the application's route table with titles in lang.
func Default(lang language.Tag) *Table {
	route := func(path, name, key string, view func(string) templ.Component) Route {
		title := i18n.T(lang, key)
		return Route{
			Path:  path,
			Name:  name,
			Title: title,
			Load: func() (templ.Component, error) {
				return view(title), nil
			},
		}
	}

	t, err := NewTable(LayoutShell, DefaultRedirect,
		route("ipv6-detection", "Ipv6Detection", i18n.TitleIpv6Detection, views.Ipv6Detection),
		route("topology-detection", "TopologyDetection", i18n.TitleTopologyDetection, views.TopologyDetection),
		route("router-tags", "RouterTags", i18n.TitleRouterTags, views.RouterTags),
		route("organization-tags", "OrganizationTags", i18n.TitleOrganizationTags, views.OrganizationTags),
		route("knowledge-graph", "KnowledgeGraph", i18n.TitleKnowledgeGraph, views.KnowledgeGraph),
	)
	if err != nil {
		// the routes above are fixed
		panic(err)
	}
	return t
}

// LayoutShell renders view inside views.Layout with one menu entry per route.
func LayoutShell(current Route, routes []Route, view templ.Component) templ.Component {
	links := make([]views.Link, len(routes))
	for i, r := range routes {
		links[i] = views.Link{
			Path:   r.FullPath(),
			Title:  r.Title,
			Active: r.Name == current.Name,
		}
	}
	return views.Layout(current.Title, links, view)
}
