package translate

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// localeSet resolves loosely-written locale strings ("EN-us", "zh_CN") to
// the closest configured locale via BCP 47 matching.
type localeSet struct {
	matcher language.Matcher
	tags    []language.Tag
	names   []string
}

func newLocaleSet(locales []string) (*localeSet, error) {
	if len(locales) == 0 {
		return nil, fmt.Errorf("locale set: no locales configured")
	}
	tags := make([]language.Tag, 0, len(locales))
	names := make([]string, 0, len(locales))
	for _, value := range locales {
		normalized := strings.ReplaceAll(strings.TrimSpace(value), "_", "-")
		tag, err := language.Parse(normalized)
		if err != nil {
			return nil, fmt.Errorf("locale set: parse %q: %w", value, err)
		}
		tags = append(tags, tag)
		names = append(names, normalized)
	}
	return &localeSet{matcher: language.NewMatcher(tags), tags: tags, names: names}, nil
}

// resolve maps a requested locale to a configured one. Unparseable or
// unsupported requests return an error so callers can fall back to the
// untranslated source.
func (s *localeSet) resolve(requested string) (string, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(requested), "_", "-")
	if normalized == "" {
		return "", fmt.Errorf("locale: empty value")
	}
	tag, err := language.Parse(normalized)
	if err != nil {
		return "", fmt.Errorf("locale: parse %q: %w", requested, err)
	}
	_, index, confidence := s.matcher.Match(tag)
	if confidence == language.No {
		return "", fmt.Errorf("locale: %q not supported", requested)
	}
	return s.names[index], nil
}
