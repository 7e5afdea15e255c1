package scanner

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Metadata is the typed YAML frontmatter of a marker file. Fields the
// frontmatter does not set stay zero.
type Metadata struct {
	Name         string   `yaml:"name"`
	Description  string   `yaml:"description"`
	Version      string   `yaml:"version"`
	License      string   `yaml:"license"`
	AllowedTools []string `yaml:"allowed-tools"`
}

// Metadata decodes the full frontmatter of a marker file. A file without a
// frontmatter block yields empty metadata; malformed YAML is an error.
func (s *Scanner) Metadata(markerPath string) (*Metadata, error) {
	content, err := os.ReadFile(markerPath)
	if err != nil {
		return nil, err
	}

	block := frontmatterBlock(string(content))
	md := &Metadata{}
	if block == "" {
		return md, nil
	}
	if err := yaml.Unmarshal([]byte(block), md); err != nil {
		return nil, err
	}
	return md, nil
}

// frontmatterBlock returns the text between the leading separator line and
// the next one, empty when the file has no frontmatter.
func frontmatterBlock(content string) string {
	lines := strings.Split(content, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return ""
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return strings.Join(lines[1:i], "\n")
		}
	}
	return ""
}
