package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListingTableBasicRows(t *testing.T) {
	t.Parallel()

	content := `
# Summer 2026 Internships

| Company | Role | Location | Application |
| ------- | ---- | -------- | ----------- |
| **Acme** | SWE Intern | Atlanta, GA | [Apply](https://acme.example.com/jobs/1) |
| Globex | Data Intern | Remote | <a href="https://globex.example.com/2">Apply</a> |
`
	entries := parseListingTable(content)
	require.Len(t, entries, 2)

	assert.Equal(t, "Acme", entries[0].Company)
	assert.Equal(t, "SWE Intern", entries[0].Role)
	assert.Equal(t, "Atlanta, GA", entries[0].Location)
	assert.Equal(t, "https://acme.example.com/jobs/1", entries[0].URL)

	assert.Equal(t, "Globex", entries[1].Company)
	assert.Equal(t, "https://globex.example.com/2", entries[1].URL)
}

func TestParseListingTableContinuationRows(t *testing.T) {
	t.Parallel()

	content := `
| Company | Role | Location | Link |
| --- | --- | --- | --- |
| Acme | SWE Intern | Atlanta, GA | [Apply](https://acme.example.com/1) |
| ↳ | Data Intern | Atlanta, GA | [Apply](https://acme.example.com/2) |
| | PM Intern | Remote | [Apply](https://acme.example.com/3) |
| Globex | QA Intern | Austin, TX | [Apply](https://globex.example.com/1) |
| ↳ | Infra Intern | Austin, TX | [Apply](https://globex.example.com/2) |
`
	entries := parseListingTable(content)
	require.Len(t, entries, 5)
	assert.Equal(t, "Acme", entries[1].Company)
	assert.Equal(t, "Acme", entries[2].Company)
	assert.Equal(t, "Globex", entries[4].Company)
}

func TestParseListingTablePrefersRightmostLink(t *testing.T) {
	t.Parallel()

	// The company cell is itself a link; the application column is further
	// right and must win.
	content := `
| [Acme](https://acme.example.com) | SWE Intern | Atlanta, GA | [Apply](https://jobs.example.com/acme/1) |
`
	entries := parseListingTable(content)
	require.Len(t, entries, 1)
	assert.Equal(t, "https://jobs.example.com/acme/1", entries[0].URL)
	assert.Equal(t, "Acme", entries[0].Company)
}

func TestParseListingTableSkipsRowsWithoutLinks(t *testing.T) {
	t.Parallel()

	content := `
| Acme | SWE Intern | Atlanta, GA | Closed |
| Globex | Data Intern | Remote | [Apply](https://globex.example.com/1) |
`
	entries := parseListingTable(content)
	require.Len(t, entries, 1)
	assert.Equal(t, "Globex", entries[0].Company)
}

func TestParseListingTableSkipsShortAndLabelRows(t *testing.T) {
	t.Parallel()

	content := `
| Legend | 🔒 means closed | [info](https://example.com/legend) |
| Company | Role | Location | Application |
| Acme | SWE Intern | [Apply](https://acme.example.com/1) |
`
	// "Legend" and "Company" rows are non-data labels; the Acme row has a
	// link and exactly 3 cells, which is enough.
	entries := parseListingTable(content)
	require.Len(t, entries, 1)
	assert.Equal(t, "Acme", entries[0].Company)
	assert.Equal(t, "https://acme.example.com/1", entries[0].URL)
}

func TestParseListingTableEmptyRoleAndLocationDefaults(t *testing.T) {
	t.Parallel()

	content := `
| Acme | | | [Apply](https://acme.example.com/1) |
`
	entries := parseListingTable(content)
	require.Len(t, entries, 1)
	assert.Equal(t, "Unknown Role", entries[0].Role)
	assert.Equal(t, "Unknown", entries[0].Location)
}

func TestStripMarkup(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"**Acme**", "Acme"},
		{"*Acme*", "Acme"},
		{"<b>Acme</b>", "Acme"},
		{"[Acme](https://acme.example.com)", "Acme"},
		{"[Acme](/relative)", "Acme"},
		{"Acme 🚀", "Acme"},
		{"↳", ""},
		{" ↳ Acme ", "Acme"},
		{"plain", "plain"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, stripMarkup(tc.in), "input %q", tc.in)
	}
}
