package entities

import (
	"fmt"
	"strings"
)

// LocatorKind represents the strategy used to find an element
type LocatorKind string

const (
	LocatorID              LocatorKind = "id"
	LocatorName            LocatorKind = "name"
	LocatorXPath           LocatorKind = "xpath"
	LocatorCSS             LocatorKind = "css"
	LocatorClass           LocatorKind = "class"
	LocatorLinkText        LocatorKind = "linktext"
	LocatorPartialLinkText LocatorKind = "partial-linktext"
)

var locatorAliases = map[string]LocatorKind{
	"id":                LocatorID,
	"name":              LocatorName,
	"xpath":             LocatorXPath,
	"css":               LocatorCSS,
	"css_selector":      LocatorCSS,
	"class":             LocatorClass,
	"classname":         LocatorClass,
	"class_name":        LocatorClass,
	"linktext":          LocatorLinkText,
	"link_text":         LocatorLinkText,
	"partial-linktext":  LocatorPartialLinkText,
	"partiallinktext":   LocatorPartialLinkText,
	"partial_link_text": LocatorPartialLinkText,
}

// ParseLocatorKind normalizes a kind name, accepting the common aliases
func ParseLocatorKind(s string) (LocatorKind, error) {
	kind, ok := locatorAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("locator kind %q not supported", s)
	}
	return kind, nil
}

// Locator identifies an element in the rendered document
type Locator struct {
	Kind   LocatorKind `json:"kind"`
	Value  string      `json:"value"`
	Parent *Locator    `json:"parent,omitempty"`
}

// NewLocator builds a locator, validating the kind
func NewLocator(kind, value string) (Locator, error) {
	k, err := ParseLocatorKind(kind)
	if err != nil {
		return Locator{}, err
	}
	if value == "" {
		return Locator{}, fmt.Errorf("locator %s has an empty value", k)
	}
	return Locator{Kind: k, Value: value}, nil
}

// ParseLocator parses "kind=value" text, e.g. "id=login-button".
// Only the first '=' separates kind from value.
func ParseLocator(s string) (Locator, error) {
	kind, value, ok := strings.Cut(s, "=")
	if !ok {
		return Locator{}, fmt.Errorf("locator %q is not in kind=value form", s)
	}
	return NewLocator(kind, value)
}

func ID(v string) Locator { return Locator{Kind: LocatorID, Value: v} }
func Name(v string) Locator { return Locator{Kind: LocatorName, Value: v} }
func XPath(v string) Locator { return Locator{Kind: LocatorXPath, Value: v} }
func CSS(v string) Locator { return Locator{Kind: LocatorCSS, Value: v} }
func Class(v string) Locator { return Locator{Kind: LocatorClass, Value: v} }
func LinkText(v string) Locator { return Locator{Kind: LocatorLinkText, Value: v} }

// XPathLiteral quotes s for use inside an XPath expression
func XPathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	quoted := make([]string, len(parts))
	for i, p := range parts {
		quoted[i] = "'" + p + "'"
	}
	return "concat(" + strings.Join(quoted, `, "'", `) + ")"
}

// Within returns a copy of the locator scoped under parent
func (l Locator) Within(parent Locator) Locator {
	p := parent
	l.Parent = &p
	return l
}

// Chain returns the locator path from the outermost parent down to l
func (l Locator) Chain() []Locator {
	var chain []Locator
	for cur := &l; cur != nil; cur = cur.Parent {
		step := *cur
		step.Parent = nil
		chain = append([]Locator{step}, chain...)
	}
	return chain
}

// Validate checks the kind and value of every step in the chain
func (l Locator) Validate() error {
	for _, step := range l.Chain() {
		if _, ok := locatorAliases[string(step.Kind)]; !ok {
			return fmt.Errorf("locator kind %q not supported", step.Kind)
		}
		if step.Value == "" {
			return fmt.Errorf("locator %s has an empty value", step.Kind)
		}
	}
	return nil
}

func (l Locator) String() string {
	steps := l.Chain()
	parts := make([]string, len(steps))
	for i, s := range steps {
		parts[i] = fmt.Sprintf("%s=%s", s.Kind, s.Value)
	}
	return strings.Join(parts, " >> ")
}
