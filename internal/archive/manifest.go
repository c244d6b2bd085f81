// internal/archive/manifest.go
package archive

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

// Manifest describes one archived dump.
type Manifest struct {
	Board      string    `yaml:"board"`
	Revision   string    `yaml:"revision"`
	Resource   string    `yaml:"resource,omitempty"`
	Region     string    `yaml:"region"`
	Desc       string    `yaml:"description,omitempty"`
	Protection string    `yaml:"protection,omitempty"`
	Start      Hex16     `yaml:"start"`
	End        Hex16     `yaml:"end"` // inclusive
	Size       int       `yaml:"size"`
	MD5        string    `yaml:"md5"`
	Passes     int       `yaml:"passes"`
	Created    time.Time `yaml:"created"`
}

// Hex16 is an address marshalled as "0xNNNN".
type Hex16 uint16

func (h Hex16) MarshalYAML() (interface{}, error) {
	return &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   "!!int",
		Value: fmt.Sprintf("0x%04X", uint16(h)),
	}, nil
}

func (h *Hex16) UnmarshalYAML(n *yaml.Node) error {
	var v uint16
	if _, err := fmt.Sscanf(n.Value, "0x%X", &v); err != nil {
		if err := n.Decode(&v); err != nil {
			return fmt.Errorf("archive: address %q: %w", n.Value, err)
		}
	}
	*h = Hex16(v)
	return nil
}

// WriteManifest encodes m as YAML.
func WriteManifest(w io.Writer, m *Manifest) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("archive: manifest: %w", err)
	}
	return enc.Close()
}

// ReadManifest decodes a YAML manifest.
func ReadManifest(r io.Reader) (*Manifest, error) {
	var m Manifest
	if err := yaml.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("archive: manifest: %w", err)
	}
	return &m, nil
}
