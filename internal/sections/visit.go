package sections

// Visitor handles each section type. Implementations produce a value of type
// T per section; adding a section type adds a method here, so every visitor
// must handle it before the code compiles again.
type Visitor[T any] interface {
	Hero(s Section) T
	Text(s Section) T
	Image(s Section) T
	Video(s Section) T
	Values(s Section, cards []Card) T
	Locations(s Section, locations []Location) T
	Perks(s Section, cards []Card) T
	Testimonial(s Section) T
	CTA(s Section) T
	// Fallback handles types this build does not know about, such as those
	// read from a newer document.
	Fallback(s Section) T
}

// Visit dispatches s to the visitor method for its type.
func Visit[T any](s Section, v Visitor[T]) T {
	switch s.Type {
	case TypeHero:
		return v.Hero(s)
	case TypeText:
		return v.Text(s)
	case TypeImage:
		return v.Image(s)
	case TypeVideo:
		return v.Video(s)
	case TypeValues:
		return v.Values(s, s.Values())
	case TypeLocations:
		return v.Locations(s, s.Locations())
	case TypePerks:
		return v.Perks(s, s.Perks())
	case TypeTestimonial:
		return v.Testimonial(s)
	case TypeCTA:
		return v.CTA(s)
	default:
		return v.Fallback(s)
	}
}
