package site

import (
	"net/http"
	"solara/constants"
	"solara/database"
	"solara/logging"
	templates "solara/templates_fancy"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	g "github.com/maragudk/gomponents"
	h "github.com/maragudk/gomponents/html"
)

// renderMarkdown turns post content into HTML. Raw HTML in the source is
// dropped.
func renderMarkdown(source string) string {
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse([]byte(source))

	htmlFlags := html.CommonFlags | html.HrefTargetBlank | html.SkipHTML
	renderer := html.NewRenderer(html.RendererOptions{Flags: htmlFlags})

	return string(markdown.Render(doc, renderer))
}

func absoluteURL(path string) string {
	if path == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return constants.PUBLIC_URL + path
}

func postPage(post *database.Post) g.Node {
	props := templates.LayoutProps{
		Title:       post.Title,
		Description: deref(post.Excerpt),
		Image:       absoluteURL(deref(post.Image)),
		URL:         absoluteURL("/blog/" + post.Slug),
	}

	return templates.Layout(props,
		h.Article(h.Class("post"),
			h.H1(g.Text(post.Title)),
			h.P(h.Class("post-meta"),
				h.Span(h.Class("tag"), g.Text(post.Category)),
				g.Text(" · "),
				g.Text(post.CreatedAt.Format("02/01/2006")),
			),
			g.If(post.Image != nil, h.Img(h.Src(deref(post.Image)), h.Alt(post.Title))),
			h.Div(h.Class("post-body"), g.Raw(renderMarkdown(post.Content))),
		),
	)
}

// SharePost renders GET /share/posts/{slug}, a crawler-friendly page with
// link preview tags for a single post.
func (s *Site) SharePost(w http.ResponseWriter, r *http.Request) {
	post, err := s.posts.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		if database.IsNotFound(err) {
			http.Error(w, "Post not found", http.StatusNotFound)
			return
		}
		writeError(w, r, err, "post")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := postPage(post).Render(w); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("slug", post.Slug).Msg("failed to render share page")
	}
}
