package domain

// AvatarProfile is the user's persisted avatar. The core treats it as an
// opaque value and only passes the four rendering fields along.
type AvatarProfile struct {
	Name          string `json:"name"`
	Ethnicity     string `json:"ethnicity"`
	Hairstyle     string `json:"hairstyle"`
	BodyType      string `json:"bodyType"`
	ClothingColor string `json:"clothingColor"`
}

// Appearance is the subset of a profile a renderer needs.
type Appearance struct {
	Ethnicity     string `json:"ethnicity"`
	Hairstyle     string `json:"hairstyle"`
	BodyType      string `json:"bodyType"`
	ClothingColor string `json:"clothingColor"`
}

// Appearance returns the rendering fields by value.
func (p AvatarProfile) Appearance() Appearance {
	return Appearance{
		Ethnicity:     p.Ethnicity,
		Hairstyle:     p.Hairstyle,
		BodyType:      p.BodyType,
		ClothingColor: p.ClothingColor,
	}
}

// DisplayName returns the avatar name, or a generic label when unnamed.
func (p AvatarProfile) DisplayName() string {
	if p.Name == "" {
		return "Your avatar"
	}
	return p.Name
}
