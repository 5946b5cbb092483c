package models

import (
	"strings"

	"adoptwatch/internal/codec"
)

// MaxTab is the highest species tab index the viewer renders.
const MaxTab = 5

// Listing is one adoptable-animal summary from the remote search endpoint.
// Age is in months.
type Listing struct {
	ID             string `json:"ID"`
	Name           string `json:"Name"`
	Species        string `json:"Species"`
	PrimaryBreed   string `json:"PrimaryBreed"`
	SecondaryBreed string `json:"SecondaryBreed,omitempty"`
	Sex            string `json:"Sex"`
	Age            int    `json:"Age"`
	Stage          string `json:"Stage"`
	SpecialNeeds   string `json:"SpecialNeeds,omitempty"`
	Location       string `json:"Location,omitempty"`
	Photo          string `json:"Photo,omitempty"`
}

var ListingCodec codec.Codec[Listing] = codec.Func[Listing](NormalizeListing)

// NormalizeListing requires an ID; every other field is optional text and a
// non-numeric age reads as zero months.
func NormalizeListing(raw any) (Listing, bool) {
	obj, ok := codec.Object(raw)
	if !ok {
		return Listing{}, false
	}
	id, ok := codec.ID(obj["ID"])
	if !ok {
		return Listing{}, false
	}
	l := Listing{
		ID:             id,
		Name:           strings.TrimSpace(codec.Text(obj["Name"])),
		Species:        strings.TrimSpace(codec.Text(obj["Species"])),
		PrimaryBreed:   strings.TrimSpace(codec.Text(obj["PrimaryBreed"])),
		SecondaryBreed: strings.TrimSpace(codec.Text(obj["SecondaryBreed"])),
		Sex:            strings.TrimSpace(codec.Text(obj["Sex"])),
		Stage:          strings.TrimSpace(codec.Text(obj["Stage"])),
		SpecialNeeds:   strings.TrimSpace(codec.Text(obj["SpecialNeeds"])),
		Location:       strings.TrimSpace(codec.Text(obj["Location"])),
		Photo:          strings.TrimSpace(codec.Text(obj["Photo"])),
	}
	if age, ok := codec.Int(obj["Age"]); ok && age > 0 {
		l.Age = int(age)
	}
	return l, true
}

// SpeciesKey is the lower-cased, trimmed species used to group listings.
func SpeciesKey(species string) string {
	return strings.ToLower(strings.TrimSpace(species))
}

// ValidTab reports whether tab is a renderable species tab index.
func ValidTab(tab int64) bool {
	return tab >= 0 && tab <= MaxTab
}
