package browser

import (
	"fmt"
	"strings"

	"course_e2e/domain/entities"
)

// linkTextXPath matches anchors by their normalized text. Scoped queries
// must stay relative to the parent node.
func linkTextXPath(text string, partial, scoped bool) string {
	prefix := "//"
	if scoped {
		prefix = ".//"
	}
	if partial {
		return fmt.Sprintf("%sa[contains(normalize-space(.), %s)]", prefix, entities.XPathLiteral(text))
	}
	return fmt.Sprintf("%sa[normalize-space(.)=%s]", prefix, entities.XPathLiteral(text))
}

// cssAttr builds an exact attribute selector
func cssAttr(name, value string) string {
	return fmt.Sprintf(`[%s="%s"]`, name, strings.ReplaceAll(value, `"`, `\"`))
}

// classSelector turns "btn btn-success" into ".btn.btn-success"
func classSelector(value string) string {
	fields := strings.Fields(value)
	return "." + strings.Join(fields, ".")
}

// queryKind is the native query a backend runs for a locator
type queryKind int

const (
	queryCSS queryKind = iota
	queryXPath
)

// toQuery translates a locator step into a CSS or XPath query usable by
// backends without native link-text support.
func toQuery(kind entities.LocatorKind, value string, scoped bool) (queryKind, string, error) {
	switch kind {
	case entities.LocatorID:
		return queryCSS, cssAttr("id", value), nil
	case entities.LocatorName:
		return queryCSS, cssAttr("name", value), nil
	case entities.LocatorCSS:
		return queryCSS, value, nil
	case entities.LocatorClass:
		return queryCSS, classSelector(value), nil
	case entities.LocatorXPath:
		return queryXPath, value, nil
	case entities.LocatorLinkText:
		return queryXPath, linkTextXPath(value, false, scoped), nil
	case entities.LocatorPartialLinkText:
		return queryXPath, linkTextXPath(value, true, scoped), nil
	}
	return 0, "", entities.MarkFailure(entities.FailureUnexpected, fmt.Errorf("locator kind %q not supported", kind))
}
