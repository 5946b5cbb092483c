package fetch

import (
	"bytes"
	"encoding/xml"
	"sort"
	"strings"
)

// node is any XML element with its text and children.
type node struct {
	XMLName xml.Name
	Content string `xml:",chardata"`
	Nodes   []node `xml:",any"`
}

// decodeXML parses data with entity expansion limited to the HTML set.
func decodeXML(data []byte) (node, error) {
	var root node
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.Entity = xml.HTMLEntity
	err := decoder.Decode(&root)
	return root, err
}

// find collects every element named name, depth first.
func (n node) find(name string) []node {
	var out []node
	if strings.EqualFold(n.XMLName.Local, name) {
		return append(out, n)
	}
	for _, child := range n.Nodes {
		out = append(out, child.find(name)...)
	}
	return out
}

// record flattens an element's children into the untyped shape the codecs
// normalize. PhotoN children are gathered, in order, into a Photos array.
func (n node) record() map[string]any {
	out := make(map[string]any, len(n.Nodes))
	type photo struct {
		name string
		url  string
	}
	var photos []photo
	for _, child := range n.Nodes {
		name := child.XMLName.Local
		value := strings.TrimSpace(child.Content)
		if strings.HasPrefix(name, "Photo") && name != "Photos" {
			if value != "" {
				photos = append(photos, photo{name: name, url: value})
			}
			continue
		}
		out[name] = value
	}
	if len(photos) > 0 {
		sort.SliceStable(photos, func(i, j int) bool { return photoIndex(photos[i].name) < photoIndex(photos[j].name) })
		urls := make([]any, len(photos))
		for i, p := range photos {
			urls[i] = p.url
		}
		out["Photos"] = urls
		out["Photo"] = urls[0]
	}
	return out
}

func photoIndex(name string) int {
	n := 0
	for _, r := range strings.TrimPrefix(name, "Photo") {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}
