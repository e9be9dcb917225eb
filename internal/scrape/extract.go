package scrape

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ctsc/internship-tracker/internal/config"
	"github.com/ctsc/internship-tracker/internal/listing"
)

// extract runs both heuristic passes over doc and returns candidates
// deduplicated by resolved absolute URL. Pass A keys off anchors whose text
// or target matches the keyword policy; pass B keys off block elements
// whose class attribute looks like a job container.
func extract(doc *goquery.Document, src config.ScrapeSource, filters config.Filters, rules ExtractRules) []listing.RawListing {
	base, err := url.Parse(src.URL)
	if err != nil {
		return nil
	}
	slug := listing.Slugify(src.Company)

	var results []listing.RawListing
	seen := make(map[string]struct{})

	// Pass A: anchors with intern keywords in text or href.
	doc.Find("a[href]").Each(func(_ int, anchor *goquery.Selection) {
		href, _ := anchor.Attr("href")
		text := strings.TrimSpace(anchor.Text())

		searchable := text + " " + href
		if !filters.MatchesInclude(searchable) || filters.MatchesExclude(searchable) {
			return
		}

		fullURL := resolveURL(base, href)
		if fullURL == "" {
			return
		}
		if _, dup := seen[fullURL]; dup {
			return
		}
		seen[fullURL] = struct{}{}

		title := text
		if title == "" {
			title = "Unknown Role"
		}
		results = append(results, listing.RawListing{
			Company:     src.Company,
			CompanySlug: slug,
			Title:       title,
			Location:    nearbyLocation(anchor, rules),
			URL:         fullURL,
			Source:      listing.SourceScrape,
			IsFaangPlus: src.IsFaangPlus,
			RawData:     map[string]any{"link_text": text, "href": href},
		})
	})

	// Pass B: job-listing containers identified by class attribute.
	doc.Find(strings.Join(rules.ContainerTags, ", ")).Each(func(_ int, container *goquery.Selection) {
		class, ok := container.Attr("class")
		if !ok || !rules.ContainerClass.MatchString(class) {
			return
		}

		text := normalizeSpace(container.Text())
		if !filters.MatchesInclude(text) || filters.MatchesExclude(text) {
			return
		}

		link := container.Find("a[href]").First()
		if link.Length() == 0 {
			return
		}
		href, _ := link.Attr("href")

		fullURL := resolveURL(base, href)
		if fullURL == "" {
			return
		}
		if _, dup := seen[fullURL]; dup {
			return
		}
		seen[fullURL] = struct{}{}

		title := strings.TrimSpace(link.Text())
		if title == "" {
			heading := container.Find(strings.Join(rules.HeadingTags, ", ")).First()
			title = strings.TrimSpace(heading.Text())
		}
		if title == "" {
			title = "Unknown Role"
		}

		results = append(results, listing.RawListing{
			Company:     src.Company,
			CompanySlug: slug,
			Title:       title,
			Location:    containerLocation(container, rules),
			URL:         fullURL,
			Source:      listing.SourceScrape,
			IsFaangPlus: src.IsFaangPlus,
			RawData:     map[string]any{"container_text": truncate(text, 500)},
		})
	})

	return results
}

// nearbyLocation probes the anchor's parent and grandparent for an element
// whose class attribute looks location-ish.
func nearbyLocation(anchor *goquery.Selection, rules ExtractRules) string {
	parent := anchor.Parent()
	if parent.Length() == 0 {
		return "Unknown"
	}
	if loc := findByClass(parent, rules.LocationTags, rules.LocationClass); loc != "" {
		return loc
	}
	grandparent := parent.Parent()
	if grandparent.Length() > 0 {
		if loc := findByClass(grandparent, rules.LocationTags, rules.LocationClass); loc != "" {
			return loc
		}
	}
	return "Unknown"
}

// containerLocation probes a job container for a location element, falling
// back to a "City, ST" shaped token in its text.
func containerLocation(container *goquery.Selection, rules ExtractRules) string {
	if loc := findByClass(container, rules.LocationTags, rules.LocationClass); loc != "" {
		return loc
	}
	if match := rules.CityState.FindString(normalizeSpace(container.Text())); match != "" {
		return match
	}
	return "Unknown"
}

// findByClass returns the text of the first descendant of s among tags
// whose class attribute matches pattern.
func findByClass(s *goquery.Selection, tags []string, pattern *regexp.Regexp) string {
	var found string
	s.Find(strings.Join(tags, ", ")).EachWithBreak(func(_ int, el *goquery.Selection) bool {
		class, ok := el.Attr("class")
		if !ok || !pattern.MatchString(class) {
			return true
		}
		found = strings.TrimSpace(el.Text())
		return false
	})
	return found
}

func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
