package monitor

import (
	"regexp"
	"strings"
)

// tableEntry is one listing row extracted from a monitored document.
type tableEntry struct {
	Company  string
	Role     string
	Location string
	URL      string
}

// continuationMarker denotes "same company as the previous row".
const continuationMarker = "↳"

var (
	tableRow     = regexp.MustCompile(`(?m)^\|(.+)\|$`)
	markdownLink = regexp.MustCompile(`\[([^\]]*)\]\((https?://[^)]+)\)`)
	anyLink      = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	htmlLink     = regexp.MustCompile(`href="(https?://[^"]+)"`)
	htmlTag      = regexp.MustCompile(`<[^>]+>`)
	boldItalic   = regexp.MustCompile(`\*{1,3}([^*]+)\*{1,3}`)
	emoji        = regexp.MustCompile(`[\x{1F300}-\x{1F9FF}\x{2600}-\x{26FF}\x{2700}-\x{27BF}\x{1FA00}-\x{1FAFF}]+`)
)

// Rows whose resolved company is one of these labels are not data.
var nonDataCompanies = map[string]struct{}{
	"company": {},
	"symbol":  {},
	"legend":  {},
	"---":     {},
}

// parseListingTable extracts job rows from pipe-delimited tables in a
// markdown document. The apply link is taken from the rightmost cell
// carrying a hyperlink, since application columns conventionally follow a
// company-name column that is often itself a link. Company names carry
// forward across continuation rows within one document.
func parseListingTable(content string) []tableEntry {
	var entries []tableEntry
	lastCompany := ""

	for _, match := range tableRow.FindAllStringSubmatch(content, -1) {
		cells := strings.Split(match[1], "|")
		for i := range cells {
			cells[i] = strings.TrimSpace(cells[i])
		}

		if isSeparatorRow(cells) {
			continue
		}
		if len(cells) < 3 {
			continue
		}

		applyURL := findApplyURL(cells)
		if applyURL == "" {
			continue
		}

		company := stripMarkup(cells[0])
		if company == "" {
			company = lastCompany
		} else {
			lastCompany = company
		}
		if company == "" {
			continue
		}
		if _, skip := nonDataCompanies[strings.ToLower(company)]; skip {
			continue
		}

		role := stripMarkup(cells[1])
		if role == "" {
			role = "Unknown Role"
		}
		location := stripMarkup(cells[2])
		if location == "" {
			location = "Unknown"
		}

		entries = append(entries, tableEntry{
			Company:  company,
			Role:     role,
			Location: location,
			URL:      applyURL,
		})
	}
	return entries
}

// isSeparatorRow reports whether every cell is empty or made of the
// punctuation markdown uses for header dividers.
func isSeparatorRow(cells []string) bool {
	if len(cells) == 0 {
		return true
	}
	for _, c := range cells {
		if c == "" || strings.HasPrefix(c, "-") || strings.HasPrefix(c, ":") {
			continue
		}
		return false
	}
	return true
}

// findApplyURL scans cells right-to-left for the first markdown or HTML
// hyperlink.
func findApplyURL(cells []string) string {
	for i := len(cells) - 1; i >= 0; i-- {
		if m := markdownLink.FindStringSubmatch(cells[i]); m != nil {
			return m[2]
		}
		if m := htmlLink.FindStringSubmatch(cells[i]); m != nil {
			return m[1]
		}
	}
	return ""
}

// stripMarkup removes HTML tags, bold/italic markers, markdown link
// wrappers, emoji, and the continuation marker from a cell.
func stripMarkup(text string) string {
	text = htmlTag.ReplaceAllString(text, "")
	text = boldItalic.ReplaceAllString(text, "$1")
	text = anyLink.ReplaceAllString(text, "$1")
	text = emoji.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)
	text = strings.Trim(text, continuationMarker)
	return strings.TrimSpace(text)
}
