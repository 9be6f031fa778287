package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveRedirect(t *testing.T) {
	const origin = "https://app.example"

	tests := []struct {
		name   string
		target string
		want   string
	}{
		{"foreign origin", "https://evil.example/x", "https://app.example"},
		{"relative path", "/dashboard", "https://app.example/dashboard"},
		{"relative with query", "/dashboard/user?tab=1", "https://app.example/dashboard/user?tab=1"},
		{"same origin absolute", "https://app.example/projects", "https://app.example/projects"},
		{"same host other scheme", "http://app.example/projects", "https://app.example"},
		{"protocol relative", "//evil.example/x", "https://app.example"},
		{"backslash trick", `/\evil.example`, "https://app.example"},
		{"javascript scheme", "javascript:alert(1)", "https://app.example"},
		{"empty", "", "https://app.example"},
		{"subdomain is foreign", "https://app.example.evil.com/", "https://app.example"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveRedirect(tt.target, origin))
		})
	}
}

func TestResolveRedirect_TrailingSlashOrigin(t *testing.T) {
	assert.Equal(t, "https://app.example/x", ResolveRedirect("/x", "https://app.example/"))
}
