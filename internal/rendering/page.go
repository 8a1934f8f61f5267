package rendering

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"sync"

	"github.com/jonathan/careerpage/internal/db"
)

//go:embed templates/*.html
var templateFS embed.FS

// Meta is the document metadata of a rendered page.
type Meta struct {
	Title        string
	Description  string
	CanonicalURL string
	Image        string
	NoIndex      bool
}

// Organization is the schema.org JSON-LD embedded in public careers pages.
type Organization struct {
	Context string `json:"@context"`
	Type    string `json:"@type"`
	Name    string `json:"name"`
	URL     string `json:"url,omitempty"`
	Logo    string `json:"logo,omitempty"`
}

// PageOptions controls the URLs written into a page.
type PageOptions struct {
	// BaseURL is the public origin, e.g. "https://careers.example.com".
	BaseURL string
}

type careersPageData struct {
	Meta         Meta
	Company      *db.Company
	Sections     []View
	Jobs         []db.Job
	Organization Organization
}

type previewPageData struct {
	Meta     Meta
	Company  *db.Company
	Sections []View
}

type unavailablePageData struct {
	Meta    Meta
	Heading string
	Message string
}

// Unavailable reasons for RenderUnavailablePage.
type Unavailable int

const (
	// NotFound is shown for a slug no company has.
	NotFound Unavailable = iota
	// ComingSoon is shown for a company that has not published its page.
	ComingSoon
)

var (
	parseOnce sync.Once
	pages     map[string]*template.Template
	parseErr  error
)

func parseTemplates() (map[string]*template.Template, error) {
	parseOnce.Do(func() {
		funcs := template.FuncMap{
			"postedLabel": PostedLabel,
		}
		out := make(map[string]*template.Template, 3)
		for _, name := range []string{"careers", "preview", "unavailable"} {
			tmpl, err := template.New(name+".html").Funcs(funcs).ParseFS(templateFS,
				"templates/base.html", "templates/"+name+".html")
			if err != nil {
				parseErr = &PageError{Page: name, Parse: true, Err: err}
				return
			}
			out[name] = tmpl
		}
		pages = out
	})
	return pages, parseErr
}

func execute(w io.Writer, name string, data any) error {
	all, err := parseTemplates()
	if err != nil {
		return err
	}
	if err := all[name].Execute(w, data); err != nil {
		return &PageError{Page: name, Err: err}
	}
	return nil
}

// BrandingOf extracts the branding sections draw on from a company.
func BrandingOf(c *db.Company) *Branding {
	if c == nil {
		return nil
	}
	return &Branding{
		LogoURL:      c.LogoURL,
		BannerURL:    c.BannerURL,
		CultureVideo: c.CultureVideo,
		PrimaryColor: c.PrimaryColor,
	}
}

// CareersURL is the public URL of a company's careers page.
func CareersURL(baseURL, slug string) string {
	return strings.TrimRight(baseURL, "/") + "/" + slug + "/careers"
}

// PageTitle is the document title of a company's careers page.
func PageTitle(companyName string) string {
	return companyName + " — Careers"
}

// PostedLabel describes how long ago a job was posted.
func PostedLabel(days int) string {
	switch {
	case days <= 0:
		return "Posted today"
	case days == 1:
		return "Posted 1 day ago"
	default:
		return fmt.Sprintf("Posted %d days ago", days)
	}
}

// RenderCareersPage writes the public careers page of a published company.
func RenderCareersPage(w io.Writer, company *db.Company, jobs []db.Job, opts PageOptions) error {
	if company == nil {
		return ErrNoCompany
	}

	url := CareersURL(opts.BaseURL, company.Slug)
	data := careersPageData{
		Meta: Meta{
			Title:        PageTitle(company.Name),
			Description:  fmt.Sprintf("Explore open positions and life at %s.", company.Name),
			CanonicalURL: url,
			Image:        firstNonEmpty(company.BannerURL, company.LogoURL),
		},
		Company:  company,
		Sections: RenderSections(company.Sections, BrandingOf(company)),
		Jobs:     jobs,
		Organization: Organization{
			Context: "https://schema.org",
			Type:    "Organization",
			Name:    company.Name,
			URL:     url,
			Logo:    company.LogoURL,
		},
	}
	return execute(w, "careers", data)
}

// RenderPreviewPage writes the owner's preview of a careers page, whether or
// not it is published. Previews are never indexed.
func RenderPreviewPage(w io.Writer, company *db.Company) error {
	if company == nil {
		return ErrNoCompany
	}
	data := previewPageData{
		Meta: Meta{
			Title:   "Preview: " + PageTitle(company.Name),
			NoIndex: true,
		},
		Company:  company,
		Sections: RenderSections(company.Sections, BrandingOf(company)),
	}
	return execute(w, "preview", data)
}

// RenderUnavailablePage writes the page shown instead of a careers page that
// does not exist or is not yet published. companyName may be empty.
func RenderUnavailablePage(w io.Writer, reason Unavailable, companyName string) error {
	data := unavailablePageData{Meta: Meta{NoIndex: true}}
	switch reason {
	case ComingSoon:
		data.Meta.Title = "Coming Soon"
		data.Heading = "Coming Soon"
		if companyName != "" {
			data.Meta.Title = PageTitle(companyName)
			data.Message = fmt.Sprintf("%s's careers page is not published yet. Check back soon.", companyName)
		} else {
			data.Message = "This careers page is not published yet. Check back soon."
		}
	default:
		data.Meta.Title = "Company Not Found"
		data.Heading = "Company Not Found"
		data.Message = "The company you are looking for does not exist."
	}
	return execute(w, "unavailable", data)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
