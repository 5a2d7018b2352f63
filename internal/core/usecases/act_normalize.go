package usecases

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/nyayasahayak/legallibrary/internal/core/domain"
)

// NormalizeAct converts one act file of the central acts dump into a
// domain.Act. The dump nests Parts -> Sections -> paragraphs, where a
// paragraph is either a string or {text, contains}. Object keys are visited
// in natural order ("Section 2" before "Section 10").
func NormalizeAct(raw []byte, actID string) (domain.Act, error) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return domain.Act{}, fmt.Errorf("decode act %s: %w", actID, err)
	}

	act := domain.Act{
		ActID:       actID,
		Name:        "Untitled",
		Description: "No description",
	}
	if title, ok := doc["Act Title"].(string); ok && strings.TrimSpace(title) != "" {
		act.Name = strings.TrimSpace(title)
	}
	switch def := doc["Act Definition"].(type) {
	case string:
		act.Description = def
	case map[string]any:
		var parts []string
		for _, k := range naturalKeys(def) {
			if s, ok := def[k].(string); ok {
				parts = append(parts, s)
			}
		}
		act.Description = strings.Join(parts, " ")
	}

	if partsMap, ok := doc["Parts"].(map[string]any); ok {
		for _, pk := range naturalKeys(partsMap) {
			part, ok := partsMap[pk].(map[string]any)
			if !ok {
				continue
			}
			sections, ok := part["Sections"].(map[string]any)
			if !ok {
				continue
			}
			for _, sk := range naturalKeys(sections) {
				sec, ok := sections[sk].(map[string]any)
				if !ok {
					continue
				}
				title, _ := sec["heading"].(string)
				if title == "" {
					title = "Untitled"
				}
				act.Sections = append(act.Sections, domain.Section{
					Number:  strings.TrimSpace(strings.Replace(sk, "Section ", "", 1)),
					Title:   title,
					Content: flattenParagraphs(sec["paragraphs"]),
				})
			}
		}
	}
	return act, nil
}

func flattenParagraphs(v any) string {
	var out []string
	switch p := v.(type) {
	case map[string]any:
		for _, k := range naturalKeys(p) {
			switch para := p[k].(type) {
			case map[string]any:
				text, _ := para["text"].(string)
				out = append(out, strings.TrimSpace(text))
				if sub, ok := para["contains"].(map[string]any); ok {
					for _, sk := range naturalKeys(sub) {
						out = append(out, strings.TrimSpace(fmt.Sprint(sub[sk])))
					}
				}
			case string:
				out = append(out, strings.TrimSpace(para))
			}
		}
	case []any:
		for _, item := range p {
			out = append(out, strings.TrimSpace(fmt.Sprint(item)))
		}
	case string:
		out = append(out, strings.TrimSpace(p))
	}
	return strings.Join(out, "\n")
}

func naturalKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return naturalLess(keys[i], keys[j]) })
	return keys
}

// naturalLess compares strings with embedded digit runs compared numerically.
func naturalLess(a, b string) bool {
	for a != "" && b != "" {
		ca, cb := rune(a[0]), rune(b[0])
		if unicode.IsDigit(ca) && unicode.IsDigit(cb) {
			na, ra := leadingNumber(a)
			nb, rb := leadingNumber(b)
			if na != nb {
				return na < nb
			}
			a, b = ra, rb
			continue
		}
		if ca != cb {
			return ca < cb
		}
		a, b = a[1:], b[1:]
	}
	return len(a) < len(b)
}

func leadingNumber(s string) (int, string) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	n, _ := strconv.Atoi(s[:i])
	return n, s[i:]
}
