// Package avatar holds the avatar option catalog and persists the user's
// profile.
package avatar

import (
	"errors"
	"fmt"
	"strings"

	"github.com/soyeahso/safetalk/internal/domain"
)

// Option is one selectable value. Color is a display hint and may be empty.
type Option struct {
	ID    string
	Label string
	Color string
}

// Option catalogs.
var (
	Ethnicities = []Option{
		{ID: "arab", Label: "Arab", Color: "#B87333"},
		{ID: "black", Label: "Black", Color: "#3E2723"},
		{ID: "asian", Label: "Asian", Color: "#E8B88E"},
		{ID: "caucasian", Label: "Caucasian", Color: "#FFE4C4"},
		{ID: "latino", Label: "Latino", Color: "#C4956A"},
	}
	Hairstyles = []Option{
		{ID: "short", Label: "Short"},
		{ID: "medium", Label: "Medium"},
		{ID: "long", Label: "Long"},
		{ID: "curly", Label: "Curly"},
		{ID: "afro", Label: "Afro"},
	}
	BodyTypes = []Option{
		{ID: "slim", Label: "Slim"},
		{ID: "normal", Label: "Normal"},
		{ID: "athletic", Label: "Athletic"},
		{ID: "curvy", Label: "Curvy"},
		{ID: "petite", Label: "Petite"},
		{ID: "broad", Label: "Broad"},
	}
	ClothingColors = []Option{
		{ID: "red", Label: "Red", Color: "#FF4444"},
		{ID: "blue", Label: "Blue", Color: "#4444FF"},
		{ID: "green", Label: "Green", Color: "#44FF44"},
		{ID: "black", Label: "Black", Color: "#2a2a2a"},
		{ID: "white", Label: "White", Color: "#F5F5F5"},
		{ID: "purple", Label: "Purple", Color: "#9944FF"},
	}
)

// Default field values.
const (
	DefaultEthnicity     = "arab"
	DefaultHairstyle     = "medium"
	DefaultBodyType      = "normal"
	DefaultClothingColor = "blue"
)

// ErrNameRequired is returned when creating a profile without a name.
var ErrNameRequired = errors.New("avatar: name is required")

// Fields maps each profile field to its catalog.
var Fields = map[string][]Option{
	"ethnicity":     Ethnicities,
	"hairstyle":     Hairstyles,
	"bodyType":      BodyTypes,
	"clothingColor": ClothingColors,
}

// Default returns an unnamed profile with every field at its default.
func Default() domain.AvatarProfile {
	return domain.AvatarProfile{
		Ethnicity:     DefaultEthnicity,
		Hairstyle:     DefaultHairstyle,
		BodyType:      DefaultBodyType,
		ClothingColor: DefaultClothingColor,
	}
}

// WithDefaults fills empty fields from Default.
func WithDefaults(p domain.AvatarProfile) domain.AvatarProfile {
	d := Default()
	if p.Ethnicity == "" {
		p.Ethnicity = d.Ethnicity
	}
	if p.Hairstyle == "" {
		p.Hairstyle = d.Hairstyle
	}
	if p.BodyType == "" {
		p.BodyType = d.BodyType
	}
	if p.ClothingColor == "" {
		p.ClothingColor = d.ClothingColor
	}
	return p
}

// Lookup finds id in opts.
func Lookup(opts []Option, id string) (Option, bool) {
	for _, o := range opts {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// IDs lists the ids in opts.
func IDs(opts []Option) []string {
	out := make([]string, len(opts))
	for i, o := range opts {
		out[i] = o.ID
	}
	return out
}

// Validate checks a profile submitted from a form: the name must be set
// and every field must be a catalog value.
func Validate(p domain.AvatarProfile) error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrNameRequired
	}
	checks := []struct {
		field string
		value string
	}{
		{"ethnicity", p.Ethnicity},
		{"hairstyle", p.Hairstyle},
		{"bodyType", p.BodyType},
		{"clothingColor", p.ClothingColor},
	}
	for _, c := range checks {
		if _, ok := Lookup(Fields[c.field], c.value); !ok {
			return fmt.Errorf("avatar: unknown %s %q (want one of %s)", c.field, c.value, strings.Join(IDs(Fields[c.field]), ", "))
		}
	}
	return nil
}
