package scrape

import "regexp"

// ExtractRules is the data-driven pattern set behind the HTML heuristics.
// Keeping the tag lists and class patterns here, rather than inline in the
// extraction passes, lets the heuristic set grow without touching control
// flow.
type ExtractRules struct {
	// ContainerTags are block-level elements considered as job containers.
	ContainerTags []string
	// ContainerClass matches class attributes that mark a job container.
	ContainerClass *regexp.Regexp
	// LocationTags are elements probed for a location string.
	LocationTags []string
	// LocationClass matches class attributes that mark a location element.
	LocationClass *regexp.Regexp
	// HeadingTags are fallbacks for a container's title text.
	HeadingTags []string
	// CityState recognizes "City, ST" shaped tokens in free text.
	CityState *regexp.Regexp
}

// DefaultRules returns the built-in heuristic patterns.
func DefaultRules() ExtractRules {
	return ExtractRules{
		ContainerTags:  []string{"div", "li", "article", "tr"},
		ContainerClass: regexp.MustCompile(`(?i)job|position|opening|listing|posting|career|role|opportunity`),
		LocationTags:   []string{"span", "div", "p", "td"},
		LocationClass:  regexp.MustCompile(`(?i)location|city|place|region`),
		HeadingTags:    []string{"h1", "h2", "h3", "h4", "strong"},
		CityState:      regexp.MustCompile(`([A-Z][a-z]+(?:\s[A-Z][a-z]+)*,\s*[A-Z]{2})`),
	}
}
