package db

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/careerpage/internal/sections"
)

// DefaultPrimaryColor is the brand color given to companies that set none.
const DefaultPrimaryColor = "#0A66C2"

// Company is a tenant with a careers page. Companies are never hard-deleted.
type Company struct {
	ID           uuid.UUID     `json:"id"`
	Name         string        `json:"name"`
	Slug         string        `json:"slug"`
	LogoURL      string        `json:"logoUrl"`
	BannerURL    string        `json:"bannerUrl"`
	CultureVideo string        `json:"cultureVideo"`
	PrimaryColor string        `json:"primaryColor"`
	Sections     sections.List `json:"sections"`
	IsPublished  bool          `json:"isPublished"`
	PublishedAt  *time.Time    `json:"publishedAt"`
	CreatedBy    uuid.UUID     `json:"createdBy"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// OwnedBy reports whether the user created the company.
func (c *Company) OwnedBy(userID uuid.UUID) bool {
	return c != nil && c.CreatedBy == userID
}

// CompanyUpdate holds a partial company edit. Nil fields are left untouched.
type CompanyUpdate struct {
	Name         *string
	LogoURL      *string
	BannerURL    *string
	CultureVideo *string
	PrimaryColor *string
	Sections     *sections.List
}

// Empty reports whether the update changes nothing.
func (u CompanyUpdate) Empty() bool {
	return u.Name == nil && u.LogoURL == nil && u.BannerURL == nil &&
		u.CultureVideo == nil && u.PrimaryColor == nil && u.Sections == nil
}

var (
	slugRe       = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	slugCollapse = regexp.MustCompile(`[^a-z0-9]+`)
	hexColorRe   = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
)

// ValidSlug reports whether s is a lowercase, hyphen-separated slug.
func ValidSlug(s string) bool {
	return len(s) <= 100 && slugRe.MatchString(s)
}

// Slugify derives a slug from free text: lowercase, with runs of anything
// other than letters and digits collapsed to a single hyphen.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugCollapse.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ValidColor reports whether s is a #rgb or #rrggbb hex color.
func ValidColor(s string) bool {
	return hexColorRe.MatchString(s)
}
