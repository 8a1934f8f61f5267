// Package rendering turns careers page sections into presentation-ready views
// and renders the public, preview, and placeholder HTML pages from them.
package rendering

import (
	"github.com/jonathan/careerpage/internal/sections"
)

// Kind is the presentation a view is drawn with.
type Kind string

const (
	KindHero    Kind = "hero"
	KindProse   Kind = "prose"
	KindMedia   Kind = "media"
	KindGrid    Kind = "grid"
	KindQuote   Kind = "quote"
	KindCTA     Kind = "cta"
	KindGeneric Kind = "generic"
)

// MediaType distinguishes media views.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// CTALabel is the button text of call-to-action sections.
const CTALabel = "View Jobs"

// CTAHref points call-to-action buttons at the jobs list of the careers page.
const CTAHref = "#jobs"

// Branding is the company-level imagery some sections draw on.
type Branding struct {
	LogoURL      string `json:"logoUrl,omitempty"`
	BannerURL    string `json:"bannerUrl,omitempty"`
	CultureVideo string `json:"cultureVideo,omitempty"`
	PrimaryColor string `json:"primaryColor,omitempty"`
}

// Style is the resolved styling of a section with defaults applied.
type Style struct {
	Alignment       sections.Alignment `json:"alignment"`
	Size            sections.Size      `json:"size"`
	BackgroundColor string             `json:"backgroundColor"`
	TextColor       string             `json:"textColor"`
	AlignClass      string             `json:"alignClass"`
	PaddingClass    string             `json:"paddingClass"`
}

// CardView is one card of a grid.
type CardView struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// View is a section ready to be drawn.
type View struct {
	ID              string        `json:"id"`
	Type            sections.Type `json:"type"`
	Kind            Kind          `json:"kind"`
	Title           string        `json:"title,omitempty"`
	Body            string        `json:"body,omitempty"`
	BackgroundImage string        `json:"backgroundImage,omitempty"`
	LogoURL         string        `json:"logoUrl,omitempty"`
	CultureVideo    string        `json:"cultureVideo,omitempty"`
	MediaType       MediaType     `json:"mediaType,omitempty"`
	MediaURL        string        `json:"mediaUrl,omitempty"`
	Cards           []CardView    `json:"cards,omitzero"` // non-nil, possibly empty, for grids
	ActionLabel     string        `json:"actionLabel,omitempty"`
	ActionHref      string        `json:"actionHref,omitempty"`
	Style           Style         `json:"style"`
}

// RenderSection maps a section to its view. Branding may be nil. The result
// depends only on the inputs.
func RenderSection(s sections.Section, branding *Branding) View {
	if branding == nil {
		branding = &Branding{}
	}
	return sections.Visit[View](s, sectionRenderer{branding: branding})
}

// RenderSections renders a list in order.
func RenderSections(list sections.List, branding *Branding) []View {
	views := make([]View, 0, len(list))
	for _, s := range list {
		views = append(views, RenderSection(s, branding))
	}
	return views
}

// StyleOf resolves a section's styling.
func StyleOf(s sections.Section) Style {
	d := s.WithDefaults()
	st := Style{
		Alignment:       d.Alignment,
		Size:            d.Size,
		BackgroundColor: d.BackgroundColor,
		TextColor:       d.TextColor,
	}

	switch d.Alignment {
	case sections.AlignCenter:
		st.AlignClass = "text-center"
	case sections.AlignRight:
		st.AlignClass = "text-right"
	default:
		st.AlignClass = "text-left"
	}

	switch d.Size {
	case sections.SizeSmall:
		st.PaddingClass = "py-8"
	case sections.SizeLarge:
		st.PaddingClass = "py-20"
	default:
		st.PaddingClass = "py-12"
	}
	return st
}

type sectionRenderer struct {
	branding *Branding
}

var _ sections.Visitor[View] = sectionRenderer{}

func base(s sections.Section, kind Kind) View {
	return View{
		ID:    s.ID,
		Type:  s.Type,
		Kind:  kind,
		Title: s.Title,
		Body:  s.Content,
		Style: StyleOf(s),
	}
}

func (r sectionRenderer) Hero(s sections.Section) View {
	v := base(s, KindHero)
	v.BackgroundImage = s.ImageURL
	if r.branding.BannerURL != "" {
		v.BackgroundImage = r.branding.BannerURL
	}
	v.LogoURL = r.branding.LogoURL
	v.CultureVideo = r.branding.CultureVideo
	return v
}

func (r sectionRenderer) Text(s sections.Section) View {
	return base(s, KindProse)
}

func (r sectionRenderer) Image(s sections.Section) View {
	v := base(s, KindMedia)
	v.Body = ""
	v.MediaType = MediaImage
	v.MediaURL = s.ImageURL
	return v
}

func (r sectionRenderer) Video(s sections.Section) View {
	v := base(s, KindMedia)
	v.Body = ""
	v.MediaType = MediaVideo
	v.MediaURL = s.VideoURL
	return v
}

func (r sectionRenderer) Values(s sections.Section, cards []sections.Card) View {
	return grid(s, toCardViews(cards))
}

func (r sectionRenderer) Locations(s sections.Section, locations []sections.Location) View {
	views := make([]CardView, 0, len(locations))
	for _, l := range locations {
		views = append(views, CardView{Title: l.City, Description: l.Address})
	}
	return grid(s, views)
}

func (r sectionRenderer) Perks(s sections.Section, cards []sections.Card) View {
	return grid(s, toCardViews(cards))
}

func (r sectionRenderer) Testimonial(s sections.Section) View {
	return base(s, KindQuote)
}

func (r sectionRenderer) CTA(s sections.Section) View {
	v := base(s, KindCTA)
	v.ActionLabel = CTALabel
	v.ActionHref = CTAHref
	return v
}

func (r sectionRenderer) Fallback(s sections.Section) View {
	return base(s, KindGeneric)
}

func grid(s sections.Section, cards []CardView) View {
	v := base(s, KindGrid)
	v.Cards = cards
	return v
}

func toCardViews(cards []sections.Card) []CardView {
	out := make([]CardView, 0, len(cards))
	for _, c := range cards {
		out = append(out, CardView(c))
	}
	return out
}
