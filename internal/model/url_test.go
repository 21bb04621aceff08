package model

import "testing"

func TestNormalizeURL(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"":                        "",
		"  ":                      "",
		"github.com":              "https://github.com",
		"http://example.com":      "http://example.com",
		"https://example.com/x":   "https://example.com/x",
		" accounts.google.com   ": "https://accounts.google.com",
	}
	for in, want := range cases {
		if got := NormalizeURL(in); got != want {
			t.Errorf("NormalizeURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDomainFromURL(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"":                              "",
		"https://www.Facebook.com/help": "facebook.com",
		"github.com/settings":           "github.com",
		"http://mail.example.com":       "mail.example.com",
	}
	for in, want := range cases {
		if got := DomainFromURL(in); got != want {
			t.Errorf("DomainFromURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestClassifyCategory(t *testing.T) {
	t.Parallel()
	cases := []struct {
		domain, service string
		want            Category
	}{
		{"gmail.com", "", CategoryEmail},
		{"chase.com", "Chase", CategoryBanking},
		{"reddit.com", "", CategorySocial},
		{"gitlab.com", "", CategoryDeveloper},
		{"example.com", "Example Shop", CategoryOther},
		{"", "PayPal", CategoryBanking},
	}
	for _, tc := range cases {
		if got := ClassifyCategory(tc.domain, tc.service); got != tc.want {
			t.Errorf("ClassifyCategory(%q, %q) = %s, want %s", tc.domain, tc.service, got, tc.want)
		}
	}
}
