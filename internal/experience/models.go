package experience

import (
	"errors"
	"strings"
)

type Category string

const (
	CategorySUP  Category = "SUP"
	CategoryBike Category = "BIKE"
	CategorySki  Category = "SKI"
)

// Order is the display order of the categories.
var Order = []Category{CategorySUP, CategoryBike, CategorySki}

var ErrUnknownCategory = errors.New("unknown experience category")

func ParseCategory(raw string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := themes[c]; !ok {
		return "", ErrUnknownCategory
	}
	return c, nil
}

func (c Category) Valid() bool {
	_, ok := themes[c]
	return ok
}

type Theme struct {
	Key             Category `json:"key"`
	Label           string   `json:"label"`
	Accent          string   `json:"accent"`
	AccentSoft      string   `json:"accentSoft"`
	HeaderGradient  string   `json:"headerGradient"`
	HeroImage       string   `json:"heroImage"`
	HeroTitle       string   `json:"heroTitle"`
	HeroSubtitle    string   `json:"heroSubtitle"`
	Activities      []string `json:"activities"`
	Routes          []string `json:"routes"`
	GalleryHeadline string   `json:"galleryHeadline"`
	ShopHeadline    string   `json:"shopHeadline"`
}

// ThemeFor returns the static bundle for c. Unknown categories get the SUP theme.
func ThemeFor(c Category) Theme {
	if t, ok := themes[c]; ok {
		return t
	}
	return themes[CategorySUP]
}

func Themes() []Theme {
	out := make([]Theme, 0, len(Order))
	for _, c := range Order {
		out = append(out, themes[c])
	}
	return out
}

var themes = map[Category]Theme{
	CategorySUP: {
		Key:             CategorySUP,
		Label:           "SUP",
		Accent:          "#1183d4",
		AccentSoft:      "#d7ecfb",
		HeaderGradient:  "linear-gradient(90deg, #0f2230 0%, #0c1b27 100%)",
		HeroImage:       "https://images.unsplash.com/photo-1543857778-c4a1a3e0b2eb?q=80&w=2010&auto=format&fit=crop",
		HeroTitle:       "Experience the Thrill of Antalya's Waters",
		HeroSubtitle:    "Premium stand up paddle sessions for groups, private classes, and coastal route explorers.",
		Activities:      []string{"Stand Up Paddle (SUP)", "SUP Yoga", "Sunrise Paddle", "Group SUP Session"},
		Routes:          []string{"Antalya Cliffs", "Blue Caves Tour", "Suluada Island", "River Expedition"},
		GalleryHeadline: "SUP moments from groups, sunrise sessions and coast routes.",
		ShopHeadline:    "SUP gear catalog for rental and sales inquiries.",
	},
	CategoryBike: {
		Key:             CategoryBike,
		Label:           "Bisiklet",
		Accent:          "#d97706",
		AccentSoft:      "#fff0d9",
		HeaderGradient:  "linear-gradient(90deg, #2c1c06 0%, #1f1404 100%)",
		HeroImage:       "https://images.unsplash.com/photo-1485965120184-e220f721d03e?q=80&w=2070&auto=format&fit=crop",
		HeroTitle:       "Ride Antalya with Guided Bike Programs",
		HeroSubtitle:    "City, forest and coastal bike experiences designed for visitors, companies and active groups.",
		Activities:      []string{"City Bike Tour", "Forest MTB Session", "Road Bike Group Ride", "Sunset Bike Route"},
		Routes:          []string{"Old Town Loop", "Lara Coastal Ride", "Forest Trail", "Mountain View Route"},
		GalleryHeadline: "Bike tours, city rides and forest route highlights.",
		ShopHeadline:    "Bike equipment and accessories for guided tours.",
	},
	CategorySki: {
		Key:             CategorySki,
		Label:           "Kayak",
		Accent:          "#0ea5a4",
		AccentSoft:      "#daf6f4",
		HeaderGradient:  "linear-gradient(90deg, #052628 0%, #041d1f 100%)",
		HeroImage:       "https://images.unsplash.com/photo-1488441770602-aed21fc49bd5?q=80&w=1974&auto=format&fit=crop",
		HeroTitle:       "Ski Programs and Winter Group Planning",
		HeroSubtitle:    "From beginner sessions to advanced runs, plan your next ski day with transport and guide support.",
		Activities:      []string{"Beginner Ski Session", "Family Ski Day", "Advanced Slope Program", "Snowboard Starter"},
		Routes:          []string{"Saklikent Easy Line", "Summit Mid Route", "Alpine Advanced Zone", "Private Ski Track"},
		GalleryHeadline: "Ski days, slope coaching and winter team events.",
		ShopHeadline:    "Ski and winter gear catalog for seasonal planning.",
	},
}
