package web

import (
	"bytes"
	"context"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"

	"github.com/omnidive/omnidive/internal/chart"
	"github.com/omnidive/omnidive/internal/content"
	"github.com/omnidive/omnidive/internal/dashboard"
	"github.com/omnidive/omnidive/internal/explorer"
)

// markdown renders model-written summaries. Raw HTML in the source is
// dropped.
type markdown struct {
	md goldmark.Markdown
}

func newMarkdown() *markdown {
	return &markdown{md: goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
	)}
}

func (m *markdown) render(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(src), &buf); err != nil {
		return "", errorf("rendering summary: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// pageView is the template data for both the full page and the fragment.
type pageView struct {
	Phase      explorer.Phase
	Loading    bool
	Inert      bool
	Pending    string
	HasContent bool

	Topic   string
	Title   string
	Summary template.HTML
	Facts   []string
	Chart   template.HTML
	QAndA   []content.QA
	Image   any // string or template.URL

	Stats dashboard.HostingStats
}

func (h *Handler) view(ctx context.Context, snap explorer.Snapshot) (pageView, error) {
	v := pageView{
		Phase:   snap.Phase(),
		Loading: snap.Loading,
		Inert:   h.inert(snap),
		Pending: snap.Pending,
		Topic:   snap.Topic,
		Stats:   h.stats(ctx),
	}
	if snap.Content == nil {
		return v, nil
	}

	tc := snap.Content
	summary, err := h.md.render(tc.Summary)
	if err != nil {
		return v, err
	}
	svg, err := chart.SVG(chart.Build(tc.Stats))
	if err != nil {
		return v, err
	}

	v.HasContent = true
	v.Title = tc.Title
	v.Summary = summary
	v.Facts = tc.Facts
	v.Chart = svg
	v.QAndA = tc.QAndA
	v.Image = imageSrc(snap.Image)
	return v, nil
}

// imageSrc marks inline image data as a trusted URL. Anything else goes
// through the template's normal URL filtering.
func imageSrc(ref string) any {
	if strings.HasPrefix(ref, "data:image/") {
		return template.URL(ref)
	}
	return ref
}
