package record

import (
	"encoding/json"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/dircrawl/internal/sources"
)

// jsonldScriptSelector locates embedded JSON-LD blocks.
const jsonldScriptSelector = `script[type='application/ld+json']`

// businessTypes are the JSON-LD @type values treated as business entries.
var businessTypes = map[string]struct{}{
	"LocalBusiness":               {},
	"Organization":                {},
	"ProfessionalService":         {},
	"HomeAndConstructionBusiness": {},
}

// JSONLDBusinesses parses the JSON-LD blocks in the selection and returns
// raw field maps for every business-typed object, in document order.
// Malformed JSON blocks are skipped; they are an extraction miss, not an
// error.
func JSONLDBusinesses(sel *goquery.Selection) []RawFields {
	if sel == nil {
		return nil
	}

	var results []RawFields
	sel.Find(jsonldScriptSelector).Each(func(_ int, script *goquery.Selection) {
		var data any
		if err := json.Unmarshal([]byte(script.Text()), &data); err != nil {
			return
		}
		for _, obj := range flattenJSONLD(data) {
			if fields, ok := businessFields(obj); ok {
				results = append(results, fields)
			}
		}
	})
	return results
}

// EnrichFromJSONLD fills the record's absent fields from the first
// business object found in the selection. Present fields are never
// overwritten.
func EnrichFromJSONLD(rec *Record, sel *goquery.Selection) {
	objects := JSONLDBusinesses(sel)
	if len(objects) == 0 {
		return
	}
	fields := objects[0]

	fill := func(current *string, field sources.Field) {
		if *current == "" {
			*current = fields[field]
		}
	}
	fill(&rec.BusinessName, sources.FieldBusinessName)
	fill(&rec.Phone, sources.FieldPhone)
	fill(&rec.Email, sources.FieldEmail)
	fill(&rec.Website, sources.FieldWebsite)
	fill(&rec.Address, sources.FieldAddress)
	fill(&rec.City, sources.FieldCity)
	fill(&rec.Province, sources.FieldProvince)
	fill(&rec.PostalCode, sources.FieldPostalCode)
}

// flattenJSONLD expands a decoded JSON-LD document into its constituent
// objects: top-level arrays and @graph containers are unwrapped one level.
func flattenJSONLD(data any) []map[string]any {
	var objs []map[string]any
	switch v := data.(type) {
	case []any:
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				objs = append(objs, m)
			}
		}
	case map[string]any:
		if graph, ok := v["@graph"].([]any); ok {
			for _, item := range graph {
				if m, ok := item.(map[string]any); ok {
					objs = append(objs, m)
				}
			}
		} else {
			objs = append(objs, v)
		}
	}
	return objs
}

// businessFields maps a business-typed JSON-LD object to raw record
// fields. Returns false when the object is not business-typed.
func businessFields(obj map[string]any) (RawFields, bool) {
	if !isBusinessType(obj["@type"]) {
		return nil, false
	}

	fields := make(RawFields)
	if name := firstString(obj["name"], obj["legalName"]); name != "" {
		fields[sources.FieldBusinessName] = name
	}
	if phone := firstString(obj["telephone"]); phone != "" {
		fields[sources.FieldPhone] = phone
	}
	if email := firstString(obj["email"]); email != "" {
		fields[sources.FieldEmail] = email
	}
	if website := firstString(obj["url"], obj["sameAs"]); website != "" {
		fields[sources.FieldWebsite] = website
	}

	if addr, ok := obj["address"].(map[string]any); ok {
		if v := firstString(addr["streetAddress"]); v != "" {
			fields[sources.FieldAddress] = v
		}
		if v := firstString(addr["addressLocality"]); v != "" {
			fields[sources.FieldCity] = v
		}
		if v := firstString(addr["addressRegion"]); v != "" {
			fields[sources.FieldProvince] = v
		}
		if v := firstString(addr["postalCode"]); v != "" {
			fields[sources.FieldPostalCode] = v
		}
	}

	if len(fields) == 0 {
		return nil, false
	}
	return fields, true
}

// isBusinessType reports whether a JSON-LD @type value (string or list)
// names a business type.
func isBusinessType(typeVal any) bool {
	switch v := typeVal.(type) {
	case string:
		_, ok := businessTypes[v]
		return ok
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				if _, match := businessTypes[s]; match {
					return true
				}
			}
		}
	}
	return false
}

// firstString returns the first usable string among the candidates. A
// list candidate contributes its first string element.
func firstString(candidates ...any) string {
	for _, c := range candidates {
		switch v := c.(type) {
		case string:
			if v != "" {
				return v
			}
		case []any:
			for _, item := range v {
				if s, ok := item.(string); ok && s != "" {
					return s
				}
			}
		}
	}
	return ""
}
