package sites

import (
	"fmt"
	"strings"
)

// The source APIs are loosely typed: the same field arrives as a
// string, a number, an object, or a list depending on the item. These
// walkers read whatever shape shows up without failing the item.

func jsonStr(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%v", v)
	default:
		return ""
	}
}

func jsonMap(m map[string]any, key string) map[string]any {
	v, _ := m[key].(map[string]any)
	return v
}

func jsonList(m map[string]any, key string) []any {
	v, _ := m[key].([]any)
	return v
}

// jsonImage reads schema.org image fields: a URL string, an object
// with a url key, or a list of either.
func jsonImage(v any) string {
	switch img := v.(type) {
	case string:
		return img
	case map[string]any:
		return jsonStr(img, "url")
	case []any:
		if len(img) > 0 {
			return jsonImage(img[0])
		}
	}
	return ""
}

// jsonPrice reads schema.org offers: a single offer object or a list.
func jsonPrice(v any) string {
	switch offers := v.(type) {
	case map[string]any:
		return jsonStr(offers, "price")
	case []any:
		if len(offers) > 0 {
			return jsonPrice(offers[0])
		}
	}
	return ""
}

// jsonLocation assembles a display location and the address region from
// a schema.org Place. Missing pieces simply drop out of the join.
func jsonLocation(v any) (location, region string) {
	loc, ok := v.(map[string]any)
	if !ok {
		return "", ""
	}

	venue := cleanText(jsonStr(loc, "name"))

	addr := jsonMap(loc, "address")
	if addr == nil {
		return venue, ""
	}

	street := cleanText(jsonStr(addr, "streetAddress"))
	city := cleanText(jsonStr(addr, "addressLocality"))
	region = strings.ToUpper(cleanText(jsonStr(addr, "addressRegion")))

	parts := make([]string, 0, 4)
	for _, p := range []string{venue, street, city, region} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", "), region
}
