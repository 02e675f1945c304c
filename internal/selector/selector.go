// Package selector implements selector expression parsing and field
// extraction from HTML documents. A selector expression is a CSS selector
// with an optional extraction suffix: "::text" extracts the element's text
// content and "::attr(name)" extracts the named attribute. Without a
// suffix the caller chooses the extraction mode.
package selector

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// Mode selects what an expression extracts from its first matching element.
type Mode int

const (
	// ModeDefault defers the extraction mode to the caller.
	ModeDefault Mode = iota
	// ModeText extracts the element's text content.
	ModeText
	// ModeAttr extracts a named attribute value.
	ModeAttr
)

// attrSuffixRe matches a trailing ::attr(name) extraction suffix.
var attrSuffixRe = regexp.MustCompile(`::attr\(([^)]+)\)$`)

const textSuffix = "::text"

// Expression is a parsed selector expression.
type Expression struct {
	// Query is the CSS selector part of the expression.
	Query string
	// Mode is the extraction mode requested by the suffix.
	Mode Mode
	// Attr is the attribute name when Mode is ModeAttr.
	Attr string
}

// Parse parses and validates a selector expression. The CSS selector part
// is compiled eagerly so malformed configuration fails before any fetching.
func Parse(expr string) (Expression, error) {
	e := Expression{Query: strings.TrimSpace(expr), Mode: ModeDefault}
	if e.Query == "" {
		return Expression{}, fmt.Errorf("empty selector expression")
	}

	if m := attrSuffixRe.FindStringSubmatch(e.Query); m != nil {
		e.Mode = ModeAttr
		e.Attr = strings.TrimSpace(m[1])
		e.Query = strings.TrimSpace(strings.TrimSuffix(e.Query, m[0]))
	} else if strings.HasSuffix(e.Query, textSuffix) {
		e.Mode = ModeText
		e.Query = strings.TrimSpace(strings.TrimSuffix(e.Query, textSuffix))
	}

	if e.Query == "" {
		return Expression{}, fmt.Errorf("selector expression %q has no CSS selector part", expr)
	}
	if _, err := cascadia.Parse(e.Query); err != nil {
		return Expression{}, fmt.Errorf("invalid CSS selector %q: %w", e.Query, err)
	}
	return e, nil
}

// ParseAll parses a list of selector expressions, failing on the first
// invalid one.
func ParseAll(exprs []string) ([]Expression, error) {
	parsed := make([]Expression, 0, len(exprs))
	for _, expr := range exprs {
		e, err := Parse(expr)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, e)
	}
	return parsed, nil
}

// Validate reports whether every expression in the list parses.
func Validate(exprs []string) error {
	_, err := ParseAll(exprs)
	return err
}

// Extract applies the expression to the selection and returns the value
// from the first matching element. The fallback mode is used when the
// expression carries no suffix. A selector that matches nothing yields
// ("", false); that is an extraction miss, not an error.
func (e Expression) Extract(sel *goquery.Selection, fallback Mode, fallbackAttr string) (string, bool) {
	match := sel.Find(e.Query).First()
	if match.Length() == 0 {
		return "", false
	}

	mode, attr := e.Mode, e.Attr
	if mode == ModeDefault {
		mode = fallback
		attr = fallbackAttr
	}

	switch mode {
	case ModeAttr:
		val, ok := match.Attr(attr)
		if !ok || strings.TrimSpace(val) == "" {
			return "", false
		}
		return val, true
	default:
		text := match.Text()
		if strings.TrimSpace(text) == "" {
			return "", false
		}
		return text, true
	}
}

// FirstText tries each expression in order and returns the first non-empty
// text extraction.
func FirstText(sel *goquery.Selection, exprs []Expression) (string, bool) {
	for _, e := range exprs {
		if val, ok := e.Extract(sel, ModeText, ""); ok {
			return val, true
		}
	}
	return "", false
}

// FirstAttr tries each expression in order and returns the first non-empty
// attribute extraction. Expressions without an explicit suffix read the
// given attribute.
func FirstAttr(sel *goquery.Selection, exprs []Expression, attr string) (string, bool) {
	for _, e := range exprs {
		if val, ok := e.Extract(sel, ModeAttr, attr); ok {
			return val, true
		}
	}
	return "", false
}
