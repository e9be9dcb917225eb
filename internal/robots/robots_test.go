package robots

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ctsc/internship-tracker/internal/ratelimit"
)

func TestAllowedByPolicy(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		content string
		want    bool
	}{
		{
			name:    "wildcard full block",
			content: "User-agent: *\nDisallow: /",
			want:    false,
		},
		{
			name:    "wildcard glob full block",
			content: "User-agent: *\nDisallow: /*",
			want:    false,
		},
		{
			name:    "unrelated path disallow",
			content: "User-agent: *\nDisallow: /admin",
			want:    true,
		},
		{
			name:    "agent-specific full block",
			content: "User-agent: InternshipTracker\nDisallow: /",
			want:    false,
		},
		{
			name:    "agent token matched by substring",
			content: "User-agent: internshiptracker/1.0\nDisallow: /",
			want:    false,
		},
		{
			name:    "other agent blocked, we are not",
			content: "User-agent: BadBot\nDisallow: /\n\nUser-agent: *\nDisallow: /private",
			want:    true,
		},
		{
			name:    "our block with safe rules, wildcard never applies",
			content: "User-agent: InternshipTracker\nDisallow: /tmp\n\nUser-agent: otherbot\nDisallow: /",
			want:    true,
		},
		{
			// Once our agent has matched, a later wildcard block still
			// carries our match forward; its full-site rule applies.
			name:    "wildcard full block after our block",
			content: "User-agent: InternshipTracker\nDisallow: /tmp\n\nUser-agent: *\nDisallow: /",
			want:    false,
		},
		{
			name:    "comments and blanks ignored",
			content: "# nothing to see\n\nUser-agent: *\n# Disallow: /\nDisallow: /jobs-archive",
			want:    true,
		},
		{
			name:    "empty document",
			content: "",
			want:    true,
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := allowedByPolicy(tc.content, "internshiptracker")
			assert.Equal(t, tc.want, got)
		})
	}
}

func newTestChecker(t *testing.T) *Checker {
	t.Helper()
	return NewChecker(ratelimit.New(1000), Config{
		UserAgent: "InternshipTracker/1.0 (test)",
		AgentName: "internshiptracker",
	}, zap.NewNop())
}

func TestAllowedFetchesAndParsesRobots(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/robots.txt", r.URL.Path)
		fmt.Fprintln(w, "User-agent: *\nDisallow: /")
	}))
	defer srv.Close()

	assert.False(t, newTestChecker(t).Allowed(context.Background(), srv.URL+"/careers"))
}

func TestAllowedWhenRobotsMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	assert.True(t, newTestChecker(t).Allowed(context.Background(), srv.URL+"/careers"))
}

func TestAllowedWhenRobotsUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused from here on

	assert.True(t, newTestChecker(t).Allowed(context.Background(), srv.URL+"/careers"))
}
