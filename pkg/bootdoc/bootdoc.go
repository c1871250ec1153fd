// Package bootdoc loads the boot document: the system-prompt text sent at
// the start of every conversation. A document may open with a YAML
// front-matter block overriding the model or temperature for that persona.
package bootdoc

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const frontMatterDelimiter = "---"

// Overrides are per-document settings carried in front-matter. Nil fields
// leave the configured value in effect.
type Overrides struct {
	Model       string   `yaml:"model,omitempty"`
	Temperature *float64 `yaml:"temperature,omitempty"`
}

// Doc is a loaded boot document.
type Doc struct {
	Path      string
	Overrides Overrides
	Content   string
}

// Load reads and parses the boot document at path. A document without
// front-matter is used verbatim as content.
func Load(path string) (*Doc, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("bootdoc: read %s: %w", path, err)
	}
	doc := &Doc{Path: path}

	s := string(b)
	if !strings.HasPrefix(s, frontMatterDelimiter) {
		doc.Content = s
		return doc, nil
	}

	rest := s[len(frontMatterDelimiter):]
	idx := strings.Index(rest, "\n"+frontMatterDelimiter)
	if idx == -1 {
		return nil, fmt.Errorf("bootdoc: unclosed front-matter block in %s", path)
	}
	yamlBlock := rest[:idx]
	body := rest[idx+len("\n"+frontMatterDelimiter):]
	if strings.HasPrefix(body, "\n\n") {
		body = body[2:]
	} else if strings.HasPrefix(body, "\n") {
		body = body[1:]
	}

	if err := yaml.Unmarshal([]byte(yamlBlock), &doc.Overrides); err != nil {
		return nil, fmt.Errorf("bootdoc: front-matter parse error in %s: %w", path, err)
	}
	doc.Content = body
	return doc, nil
}
