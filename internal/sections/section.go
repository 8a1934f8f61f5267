// Package sections defines the content sections that make up a company careers
// page and the ordered list operations used by the page builder.
package sections

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jonathan/careerpage/internal/schemas"
)

// Type identifies the kind of content a section carries.
type Type string

// Section types
const (
	TypeHero        Type = "hero"
	TypeText        Type = "text"
	TypeImage       Type = "image"
	TypeVideo       Type = "video"
	TypeValues      Type = "values"
	TypeLocations   Type = "locations"
	TypePerks       Type = "perks"
	TypeTestimonial Type = "testimonial"
	TypeCTA         Type = "cta"
)

// Types lists every section type in the order the builder offers them.
var Types = []Type{
	TypeHero, TypeText, TypeImage, TypeVideo, TypeValues,
	TypeLocations, TypePerks, TypeTestimonial, TypeCTA,
}

// Valid reports whether t is one of the known section types.
func (t Type) Valid() bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

// Alignment is the horizontal text alignment of a section.
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// Size is the vertical padding scale of a section.
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// Styling defaults applied to sections that leave them unset.
const (
	DefaultBackgroundColor = "#ffffff"
	DefaultTextColor       = "#000000"
	DefaultAlignment       = AlignLeft
	DefaultSize            = SizeMedium
)

var hexColorRe = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Section is one block of careers page content.
//
// Data is deliberately serialized even when nil so that a section read back
// from storage compares equal to the one written.
type Section struct {
	ID              string         `json:"id"`
	Type            Type           `json:"type"`
	Title           string         `json:"title,omitempty"`
	Content         string         `json:"content,omitempty"`
	ImageURL        string         `json:"imageUrl,omitempty"`
	VideoURL        string         `json:"videoUrl,omitempty"`
	BackgroundColor string         `json:"backgroundColor,omitempty"`
	TextColor       string         `json:"textColor,omitempty"`
	Alignment       Alignment      `json:"alignment,omitempty"`
	Size            Size           `json:"size,omitempty"`
	Data            map[string]any `json:"data"`
}

// Patch holds a partial edit of a section. Nil fields are left untouched.
// There is no way to change a section's ID or Type through a patch.
type Patch struct {
	Title           *string        `json:"title,omitempty"`
	Content         *string        `json:"content,omitempty"`
	ImageURL        *string        `json:"imageUrl,omitempty"`
	VideoURL        *string        `json:"videoUrl,omitempty"`
	BackgroundColor *string        `json:"backgroundColor,omitempty"`
	TextColor       *string        `json:"textColor,omitempty"`
	Alignment       *Alignment     `json:"alignment,omitempty"`
	Size            *Size          `json:"size,omitempty"`
	Data            map[string]any `json:"data,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Content == nil && p.ImageURL == nil && p.VideoURL == nil &&
		p.BackgroundColor == nil && p.TextColor == nil && p.Alignment == nil &&
		p.Size == nil && p.Data == nil
}

// Apply returns a copy of s with the patch merged in.
func (s Section) Apply(p Patch) Section {
	out := s.Clone()
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Content != nil {
		out.Content = *p.Content
	}
	if p.ImageURL != nil {
		out.ImageURL = *p.ImageURL
	}
	if p.VideoURL != nil {
		out.VideoURL = *p.VideoURL
	}
	if p.BackgroundColor != nil {
		out.BackgroundColor = *p.BackgroundColor
	}
	if p.TextColor != nil {
		out.TextColor = *p.TextColor
	}
	if p.Alignment != nil {
		out.Alignment = *p.Alignment
	}
	if p.Size != nil {
		out.Size = *p.Size
	}
	if p.Data != nil {
		out.Data = cloneMap(p.Data)
	}
	return out
}

// WithDefaults returns a copy of s with unset styling fields filled in.
func (s Section) WithDefaults() Section {
	out := s.Clone()
	if out.BackgroundColor == "" {
		out.BackgroundColor = DefaultBackgroundColor
	}
	if out.TextColor == "" {
		out.TextColor = DefaultTextColor
	}
	if out.Alignment == "" {
		out.Alignment = DefaultAlignment
	}
	if out.Size == "" {
		out.Size = DefaultSize
	}
	return out
}

// Clone returns a deep copy of s. Data is copied recursively so the clone can
// be edited without touching the original.
func (s Section) Clone() Section {
	s.Data = cloneMap(s.Data)
	return s
}

// Validate checks the section type, styling enums, colors, and the shape of
// its data payload.
func (s Section) Validate() error {
	var problems []string

	if !s.Type.Valid() {
		problems = append(problems, fmt.Sprintf("unknown section type %q", s.Type))
	}
	switch s.Alignment {
	case "", AlignLeft, AlignCenter, AlignRight:
	default:
		problems = append(problems, fmt.Sprintf("invalid alignment %q", s.Alignment))
	}
	switch s.Size {
	case "", SizeSmall, SizeMedium, SizeLarge:
	default:
		problems = append(problems, fmt.Sprintf("invalid size %q", s.Size))
	}
	if s.BackgroundColor != "" && !hexColorRe.MatchString(s.BackgroundColor) {
		problems = append(problems, fmt.Sprintf("invalid backgroundColor %q", s.BackgroundColor))
	}
	if s.TextColor != "" && !hexColorRe.MatchString(s.TextColor) {
		problems = append(problems, fmt.Sprintf("invalid textColor %q", s.TextColor))
	}
	if err := schemas.ValidateSectionData(string(s.Type), s.Data); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return &ValidationError{SectionID: s.ID, Problems: problems}
	}
	return nil
}

// ValidationError describes why a section or list was rejected.
type ValidationError struct {
	SectionID string
	Problems  []string
}

func (e *ValidationError) Error() string {
	if e.SectionID == "" {
		return "invalid section: " + strings.Join(e.Problems, "; ")
	}
	return fmt.Sprintf("invalid section %s: %s", e.SectionID, strings.Join(e.Problems, "; "))
}

// Template returns the starter content for a new section of type t, with the
// builder's styling defaults applied. The returned section has no ID.
func Template(t Type) Section {
	s := Section{Type: t}
	switch t {
	case TypeHero:
		s.Title = "Hero Section"
		s.Content = "Welcome to our company"
	case TypeText:
		s.Title = "About Us"
		s.Content = "Tell your company story..."
	case TypeImage:
		s.Title = "Image Section"
	case TypeVideo:
		s.Title = "Culture Video"
	case TypeValues:
		s.Title = "Our Values"
		s.Data = map[string]any{"values": []any{}}
	case TypeLocations:
		s.Title = "Where We Work"
		s.Data = map[string]any{"locations": []any{}}
	case TypePerks:
		s.Title = "Benefits & Perks"
		s.Data = map[string]any{"perks": []any{}}
	case TypeTestimonial:
		s.Title = "Employee Testimonial"
		s.Content = "Great place to work!"
	case TypeCTA:
		s.Title = "Call to Action"
		s.Content = "Ready to join us?"
	}
	return s.WithDefaults()
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return val
	}
}
