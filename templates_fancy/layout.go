package templates

import (
	"solara/constants"

	g "github.com/maragudk/gomponents"
	. "github.com/maragudk/gomponents/html"
)

type LayoutProps struct {
	Title       string
	Description string
	// Image and URL must be absolute for link previews to pick them up.
	Image string
	URL   string
}

func property(name, value string) g.Node {
	return Meta(g.Attr("property", name), Content(value))
}

func OpenGraphComponent(props LayoutProps) g.Node {
	return g.Group([]g.Node{
		property("og:site_name", constants.APP_NAME),
		property("og:type", "article"),
		property("og:title", props.Title),
		g.If(props.Description != "", property("og:description", props.Description)),
		g.If(props.Description != "", Meta(Name("description"), Content(props.Description))),
		g.If(props.Image != "", property("og:image", props.Image)),
		g.If(props.URL != "", property("og:url", props.URL)),
		g.If(props.URL != "", Link(Rel("canonical"), Href(props.URL))),
	})
}

func NavbarComponent() g.Node {
	return Nav(Class("nav"),
		Div(Class("brand"), A(Href(constants.PUBLIC_URL), g.Text(constants.APP_NAME))),
		Div(Class("nav-links"),
			A(Href(constants.PUBLIC_URL+"/blog"), g.Text("Blog")),
			A(Href(constants.PUBLIC_URL+"/markets"), g.Text("Markets")),
		),
	)
}

func FooterComponent() g.Node {
	return Footer(Class("footer"),
		P(Small(g.Textf("© %s", constants.APP_NAME))),
	)
}

func Layout(props LayoutProps, children ...g.Node) g.Node {
	return Doctype(
		HTML(
			Lang("pt-BR"),
			Head(
				Meta(Charset("utf-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
				OpenGraphComponent(props),
				TitleEl(g.Textf("%s | %s", props.Title, constants.APP_NAME)),
			),
			Body(
				Div(Class("container"),
					NavbarComponent(),
					Main(
						g.Group(children),
					),
				),
				FooterComponent(),
			),
		),
	)
}
