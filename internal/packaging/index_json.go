package packaging

import (
	"bytes"
	"encoding/json"
)

// packageIndexEntry is one value of the packages.json document.
type packageIndexEntry struct {
	Name         string     `json:"name"`
	Version      string     `json:"version,omitempty"`
	Author       string     `json:"author,omitempty"`
	License      string     `json:"license,omitempty"`
	Description  string     `json:"description,omitempty"`
	Dependencies []string   `json:"dependencies,omitempty"`
	Keywords     []string   `json:"keywords,omitempty"`
	Readme       string     `json:"readme,omitempty"`
	Files        *Directory `json:"files,omitempty"`
	Doc          string     `json:"doc,omitempty"`
}

// MarshalJSON renders the index as {name: package, ...} in index order.
func (idx *Index) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range idx.packages {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(p.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(packageIndexEntry{
			Name:         p.Name,
			Version:      p.Version,
			Author:       p.Author,
			License:      p.License,
			Description:  p.Description,
			Dependencies: p.Dependencies,
			Keywords:     p.Keywords,
			Readme:       p.Readme,
			Files:        p.Files,
			Doc:          p.Doc,
		})
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
