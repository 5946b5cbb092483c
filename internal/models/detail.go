package models

import (
	"strings"

	"adoptwatch/internal/codec"
)

// Detail is the extended per-animal record from the remote detail endpoint.
type Detail struct {
	ID             string   `json:"ID"`
	Name           string   `json:"Name"`
	Species        string   `json:"Species"`
	PrimaryBreed   string   `json:"PrimaryBreed"`
	SecondaryBreed string   `json:"SecondaryBreed,omitempty"`
	Sex            string   `json:"Sex"`
	Age            int      `json:"Age"`
	Stage          string   `json:"Stage"`
	SpecialNeeds   string   `json:"SpecialNeeds,omitempty"`
	Size           string   `json:"Size,omitempty"`
	Color          string   `json:"Color,omitempty"`
	Altered        string   `json:"Altered,omitempty"`
	Housetrained   string   `json:"Housetrained,omitempty"`
	Location       string   `json:"Location,omitempty"`
	AdoptionFee    string   `json:"AdoptionFee,omitempty"`
	Description    string   `json:"Description,omitempty"`
	Photos         []string `json:"Photos"`
}

var DetailCodec codec.Codec[Detail] = codec.Func[Detail](NormalizeDetail)

// NormalizeDetail is strict: a detail record is not a recoverable partial, so
// any field of the wrong type rejects the whole record.
func NormalizeDetail(raw any) (Detail, bool) {
	obj, ok := codec.Object(raw)
	if !ok {
		return Detail{}, false
	}
	id, ok := codec.ID(obj["ID"])
	if !ok {
		return Detail{}, false
	}
	d := Detail{ID: id, Photos: []string{}}

	text := []struct {
		name string
		dst  *string
	}{
		{"Name", &d.Name}, {"Species", &d.Species}, {"PrimaryBreed", &d.PrimaryBreed},
		{"SecondaryBreed", &d.SecondaryBreed}, {"Sex", &d.Sex}, {"Stage", &d.Stage},
		{"SpecialNeeds", &d.SpecialNeeds}, {"Size", &d.Size}, {"Color", &d.Color},
		{"Altered", &d.Altered}, {"Housetrained", &d.Housetrained}, {"Location", &d.Location},
		{"AdoptionFee", &d.AdoptionFee}, {"Description", &d.Description},
	}
	for _, f := range text {
		v, present := obj[f.name]
		if !present || v == nil {
			continue
		}
		s, ok := codec.String(v)
		if !ok {
			return Detail{}, false
		}
		*f.dst = strings.TrimSpace(s)
	}
	if d.Name == "" {
		return Detail{}, false
	}

	if v, present := obj["Age"]; present && v != nil {
		age, ok := codec.Int(v)
		if !ok || age < 0 {
			return Detail{}, false
		}
		d.Age = int(age)
	}

	if v, present := obj["Photos"]; present && v != nil {
		photos, ok := codec.Array(v)
		if !ok {
			return Detail{}, false
		}
		for _, p := range photos {
			s, ok := p.(string)
			if !ok {
				return Detail{}, false
			}
			if s = strings.TrimSpace(s); s != "" {
				d.Photos = append(d.Photos, s)
			}
		}
	}
	return d, true
}

// Summary projects a detail record onto the listing shape.
func (d Detail) Summary() Listing {
	l := Listing{
		ID:             d.ID,
		Name:           d.Name,
		Species:        d.Species,
		PrimaryBreed:   d.PrimaryBreed,
		SecondaryBreed: d.SecondaryBreed,
		Sex:            d.Sex,
		Age:            d.Age,
		Stage:          d.Stage,
		SpecialNeeds:   d.SpecialNeeds,
		Location:       d.Location,
	}
	if len(d.Photos) > 0 {
		l.Photo = d.Photos[0]
	}
	return l
}
