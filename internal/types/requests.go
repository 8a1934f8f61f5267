package types

import (
	"github.com/jonathan/careerpage/internal/sections"
)

// CreateCompanyRequest creates a company and its careers page.
type CreateCompanyRequest struct {
	Name         string        `json:"name" validate:"required,max=200"`
	Slug         string        `json:"slug" validate:"required,slug"`
	LogoURL      string        `json:"logoUrl,omitempty" validate:"omitempty,url"`
	BannerURL    string        `json:"bannerUrl,omitempty" validate:"omitempty,url"`
	CultureVideo string        `json:"cultureVideo,omitempty" validate:"omitempty,url"`
	PrimaryColor string        `json:"primaryColor,omitempty" validate:"omitempty,color"`
	Sections     sections.List `json:"sections,omitempty"`
}

// UpdateCompanyRequest is a partial company edit. Absent fields are left
// untouched; an empty string clears an optional branding field.
type UpdateCompanyRequest struct {
	Name         *string        `json:"name,omitempty" validate:"omitnil,min=1,max=200"`
	Slug         *string        `json:"slug,omitempty"`
	LogoURL      *string        `json:"logoUrl,omitempty" validate:"omitnil,optionalurl"`
	BannerURL    *string        `json:"bannerUrl,omitempty" validate:"omitnil,optionalurl"`
	CultureVideo *string        `json:"cultureVideo,omitempty" validate:"omitnil,optionalurl"`
	PrimaryColor *string        `json:"primaryColor,omitempty" validate:"omitnil,color"`
	Sections     *sections.List `json:"sections,omitempty"`
}

// CreateJobRequest posts a job to the company named by CompanySlug.
type CreateJobRequest struct {
	CompanySlug    string `json:"companySlug" validate:"required"`
	Title          string `json:"title" validate:"required"`
	WorkPolicy     string `json:"workPolicy" validate:"required"`
	Location       string `json:"location" validate:"required"`
	Department     string `json:"department" validate:"required"`
	EmploymentType string `json:"employmentType" validate:"required"`
	Experience     string `json:"experience" validate:"required"`
	JobType        string `json:"jobType" validate:"required"`
	SalaryRange    string `json:"salaryRange" validate:"required"`
	Slug           string `json:"slug" validate:"required,slug"`
	PostedDaysAgo  int    `json:"postedDaysAgo" validate:"min=0"`
}

// UpdateJobRequest is a partial job edit. Required fields cannot be blanked.
type UpdateJobRequest struct {
	Title          *string `json:"title,omitempty" validate:"omitnil,min=1"`
	WorkPolicy     *string `json:"workPolicy,omitempty" validate:"omitnil,min=1"`
	Location       *string `json:"location,omitempty" validate:"omitnil,min=1"`
	Department     *string `json:"department,omitempty" validate:"omitnil,min=1"`
	EmploymentType *string `json:"employmentType,omitempty" validate:"omitnil,min=1"`
	Experience     *string `json:"experience,omitempty" validate:"omitnil,min=1"`
	JobType        *string `json:"jobType,omitempty" validate:"omitnil,min=1"`
	SalaryRange    *string `json:"salaryRange,omitempty" validate:"omitnil,min=1"`
	PostedDaysAgo  *int    `json:"postedDaysAgo,omitempty" validate:"omitnil,min=0"`
}

// UpdateApplicationStatusRequest moves an application through review.
type UpdateApplicationStatusRequest struct {
	Status ApplicationStatus `json:"status" validate:"required,appstatus"`
}

// AddSectionRequest appends a section to a careers page. A request naming
// only a type starts from that type's template. Index, when set, is the
// position the new section is moved to.
type AddSectionRequest struct {
	sections.Section
	Index *int `json:"index,omitempty"`
}

// Bare reports whether the request carries nothing but a type and styling.
func (r *AddSectionRequest) Bare() bool {
	return r.Title == "" && r.Content == "" && r.ImageURL == "" && r.VideoURL == "" && r.Data == nil
}

// MoveSectionRequest moves a section to Index. Out-of-range indexes clamp.
type MoveSectionRequest struct {
	Index *int `json:"index" validate:"required"`
}

// BrandingInput is the company imagery a render request may supply.
type BrandingInput struct {
	LogoURL      string `json:"logoUrl,omitempty"`
	BannerURL    string `json:"bannerUrl,omitempty"`
	CultureVideo string `json:"cultureVideo,omitempty"`
	PrimaryColor string `json:"primaryColor,omitempty"`
}

// RenderRequest renders unsaved builder state.
type RenderRequest struct {
	Sections sections.List  `json:"sections"`
	Branding *BrandingInput `json:"branding,omitempty"`
}
