package record

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Token patterns for fallback discovery in page text.
var (
	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phoneRe = regexp.MustCompile(`\+?1?[\s\-.]?\(?\d{3}\)?[\s\-.]?\d{3}[\s\-.]?\d{4}`)
)

// DiscoverEmail finds an email address in the selection when field
// extraction produced none. It prefers the first mailto: anchor, then
// falls back to the first email-shaped token in the visible text.
// Deterministic: repeated calls on the same selection yield the same
// result.
func DiscoverEmail(sel *goquery.Selection) (string, bool) {
	if sel == nil {
		return "", false
	}

	if href, ok := sel.Find(`a[href^='mailto:']`).First().Attr("href"); ok {
		if email := NormalizeEmail(href); email != "" {
			return email, true
		}
	}

	if match := emailRe.FindString(sel.Text()); match != "" {
		return match, true
	}
	return "", false
}

// DiscoverPhone finds a phone-shaped token in the selection's visible
// text when field extraction produced none.
func DiscoverPhone(sel *goquery.Selection) (string, bool) {
	if sel == nil {
		return "", false
	}
	match := phoneRe.FindString(sel.Text())
	if strings.TrimSpace(match) == "" {
		return "", false
	}
	return NormalizePhone(match), true
}
