package models

// LandingSettingsID is the fixed id of the single landing settings document.
const LandingSettingsID = "landing"

type LandingSettings struct {
	ID            string `bson:"id" json:"-"`
	HeroTitle     string `bson:"hero_title" json:"hero_title"`
	HeroSubtitle  string `bson:"hero_subtitle" json:"hero_subtitle"`
	HeroMedia     string `bson:"hero_media" json:"hero_media"`
	HeroMediaType string `bson:"hero_media_type" json:"hero_media_type"`
	UpdatedAt     string `bson:"updated_at" json:"updated_at,omitempty"`
}
