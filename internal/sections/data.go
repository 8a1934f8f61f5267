package sections

import (
	"github.com/go-viper/mapstructure/v2"
)

// Card is one item of a values or perks grid.
type Card struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Location is one office of a locations grid.
type Location struct {
	City    string `json:"city"`
	Address string `json:"address"`
}

// Values returns the cards stored under data.values.
func (s Section) Values() []Card {
	var out []Card
	decodeItems(s.Data, "values", &out)
	return out
}

// Perks returns the cards stored under data.perks.
func (s Section) Perks() []Card {
	var out []Card
	decodeItems(s.Data, "perks", &out)
	return out
}

// Locations returns the offices stored under data.locations.
func (s Section) Locations() []Location {
	var out []Location
	decodeItems(s.Data, "locations", &out)
	return out
}

// decodeItems decodes data[key] into target. Anything that does not decode
// cleanly leaves target empty; malformed payloads render as an empty grid.
func decodeItems(data map[string]any, key string, target any) {
	raw, ok := data[key]
	if !ok || raw == nil {
		return
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           target,
	})
	if err != nil {
		return
	}
	if err := dec.Decode(raw); err != nil {
		switch out := target.(type) {
		case *[]Card:
			*out = nil
		case *[]Location:
			*out = nil
		}
	}
}
