// Package localize provides the message translation hook used when rendering
// action messages.
//
// A Catalog holds two kinds of entries. Exact entries map one whole composed
// sentence to its translation. Template entries use {name} placeholders and
// match any sentence of that shape:
//
//	messages:
//	  "alice has created Website": "alice a créé Website"
//	  "{user} has commented on {object}": "{user} a commenté {object}"
//
// An exact entry wins over a template. Among templates the one with the
// longest key is tried first. Anything the catalog does not match is
// returned unchanged.
package localize

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yigitunlu/heroject/internal/ports"
)

// Compile-time interface checks.
var (
	_ ports.Localizer = Passthrough{}
	_ ports.Localizer = (*Catalog)(nil)
)

// placeholderPattern matches a {name} slot in a template entry.
var placeholderPattern = regexp.MustCompile(`\{(\w+)\}`)

// Passthrough returns every message unchanged.
type Passthrough struct{}

// Translate implements ports.Localizer.
func (Passthrough) Translate(_ context.Context, msg string) string {
	return msg
}

// Catalog is an immutable message table. The zero value translates nothing.
type Catalog struct {
	messages  map[string]string
	templates []template
}

// template is a compiled placeholder entry.
type template struct {
	key   string
	re    *regexp.Regexp
	names []string
	out   string
}

type catalogFile struct {
	Messages map[string]string `yaml:"messages"`
}

// NewCatalog returns a Catalog over a copy of messages. Keys containing
// {name} placeholders become templates; a placeholder in a translation that
// its key does not define is left as written.
func NewCatalog(messages map[string]string) *Catalog {
	c := &Catalog{messages: make(map[string]string, len(messages))}
	for k, v := range messages {
		k = strings.TrimSpace(k)
		if placeholderPattern.MatchString(k) {
			c.templates = append(c.templates, compileTemplate(k, v))
			continue
		}
		c.messages[k] = v
	}
	slices.SortFunc(c.templates, func(a, b template) int {
		if n := cmp.Compare(len(b.key), len(a.key)); n != 0 {
			return n
		}
		return strings.Compare(a.key, b.key)
	})
	return c
}

func compileTemplate(key, out string) template {
	var (
		expr  strings.Builder
		names []string
		last  int
	)
	expr.WriteString("^")
	for _, m := range placeholderPattern.FindAllStringSubmatchIndex(key, -1) {
		expr.WriteString(regexp.QuoteMeta(key[last:m[0]]))
		expr.WriteString("(.+?)")
		names = append(names, key[m[2]:m[3]])
		last = m[1]
	}
	expr.WriteString(regexp.QuoteMeta(key[last:]))
	expr.WriteString("$")

	return template{key: key, re: regexp.MustCompile(expr.String()), names: names, out: out}
}

// apply fills the translation from the slots captured in msg.
func (t template) apply(msg string) (string, bool) {
	m := t.re.FindStringSubmatch(msg)
	if m == nil {
		return "", false
	}
	values := make(map[string]string, len(t.names))
	for i, name := range t.names {
		values[name] = m[i+1]
	}
	return placeholderPattern.ReplaceAllStringFunc(t.out, func(slot string) string {
		if v, ok := values[slot[1:len(slot)-1]]; ok {
			return v
		}
		return slot
	}), true
}

// LoadFile reads a YAML catalog from path.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog. A translation may only use placeholders its
// key defines.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	for k, v := range f.Messages {
		if strings.TrimSpace(v) == "" {
			return nil, fmt.Errorf("parsing catalog: empty translation for %q", k)
		}
		defined := make(map[string]bool)
		for _, m := range placeholderPattern.FindAllStringSubmatch(k, -1) {
			defined[m[1]] = true
		}
		for _, m := range placeholderPattern.FindAllStringSubmatch(v, -1) {
			if !defined[m[1]] {
				return nil, fmt.Errorf("parsing catalog: translation for %q uses undefined placeholder %s", k, m[0])
			}
		}
	}
	return NewCatalog(f.Messages), nil
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.messages) + len(c.templates)
}

// Translate implements ports.Localizer.
func (c *Catalog) Translate(_ context.Context, msg string) string {
	if c == nil {
		return msg
	}
	key := strings.TrimSpace(msg)
	if out, ok := c.messages[key]; ok {
		return out
	}
	for _, t := range c.templates {
		if out, ok := t.apply(key); ok {
			return out
		}
	}
	return msg
}

// FromPath returns a Catalog for a non-empty path and Passthrough otherwise.
func FromPath(path string) (ports.Localizer, error) {
	if strings.TrimSpace(path) == "" {
		return Passthrough{}, nil
	}
	return LoadFile(path)
}
