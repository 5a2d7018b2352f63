package http

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// DeprecatedRoute marks an endpoint as deprecated with sunset date.
type DeprecatedRoute struct {
	Path        string    // Route pattern, e.g. /acts/:id
	SunsetDate  time.Time // Date when endpoint will be removed
	Alternative string    // Successor pattern; params are filled from the request path
}

// legacySunset is when the unversioned routes go away.
var legacySunset = time.Date(2027, time.June, 30, 0, 0, 0, 0, time.UTC)

// LegacyRoutes are the unversioned paths older mobile clients still call.
var LegacyRoutes = []DeprecatedRoute{
	{Path: "/health", SunsetDate: legacySunset, Alternative: "/v1/health"},
	{Path: "/acts", SunsetDate: legacySunset, Alternative: "/v1/acts"},
	{Path: "/acts/:id", SunsetDate: legacySunset, Alternative: "/v1/acts/:id"},
	{Path: "/articles", SunsetDate: legacySunset, Alternative: "/v1/articles"},
	{Path: "/cases", SunsetDate: legacySunset, Alternative: "/v1/cases"},
	{Path: "/lawyers", SunsetDate: legacySunset, Alternative: "/v1/lawyers"},
	{Path: "/chat", SunsetDate: legacySunset, Alternative: "/v1/chat"},
	{Path: "/auth/signup", SunsetDate: legacySunset, Alternative: "/v1/auth/signup"},
	{Path: "/auth/login", SunsetDate: legacySunset, Alternative: "/v1/auth/login"},
	{Path: "/auth/verify-token", SunsetDate: legacySunset, Alternative: "/v1/auth/verify-token"},
}

// DeprecationMiddleware adds Deprecation, Sunset, and Link headers to deprecated endpoints.
func DeprecationMiddleware(deprecated []DeprecatedRoute) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		for _, d := range deprecated {
			params, ok := matchPattern(path, d.Path)
			if !ok {
				continue
			}
			// RFC 8594
			c.Set("Deprecation", "true")
			c.Set("Sunset", d.SunsetDate.UTC().Format(time.RFC1123))

			if d.Alternative != "" {
				c.Set("Link", fmt.Sprintf(`<%s>; rel="successor-version"`, fillPattern(d.Alternative, params)))
			}

			days := time.Until(d.SunsetDate).Hours() / 24
			c.Set("Warning", fmt.Sprintf(`299 - "Deprecated API, will sunset in %.0f days"`, days))
			break
		}

		return c.Next()
	}
}

// matchPattern matches path against a pattern segment by segment. Segments
// starting with ':' match any non-empty value and are returned by name.
func matchPattern(path, pattern string) (map[string]string, bool) {
	ps := strings.Split(strings.Trim(path, "/"), "/")
	qs := strings.Split(strings.Trim(pattern, "/"), "/")
	if len(ps) != len(qs) {
		return nil, false
	}
	params := map[string]string{}
	for i, q := range qs {
		if name, ok := strings.CutPrefix(q, ":"); ok {
			if ps[i] == "" {
				return nil, false
			}
			params[name] = ps[i]
			continue
		}
		if ps[i] != q {
			return nil, false
		}
	}
	return params, true
}

func fillPattern(pattern string, params map[string]string) string {
	segs := strings.Split(pattern, "/")
	for i, s := range segs {
		if name, ok := strings.CutPrefix(s, ":"); ok {
			if v, found := params[name]; found {
				segs[i] = v
			}
		}
	}
	return strings.Join(segs, "/")
}
