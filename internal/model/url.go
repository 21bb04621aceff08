package model

import (
	"net/url"
	"strings"
)

// NormalizeURL trims the value and defaults the scheme to https.
func NormalizeURL(value string) string {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return "https://" + raw
}

// DomainFromURL extracts the lowercased host, stripping a leading "www.".
// Used to resolve per-site remediation metadata.
func DomainFromURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	parsed, err := url.Parse(NormalizeURL(rawURL))
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(parsed.Host), "www.")
}

var categoryTokens = []struct {
	category Category
	tokens   []string
}{
	{CategoryEmail, []string{"gmail", "outlook", "yahoo", "proton", "mail", "email"}},
	{CategoryBanking, []string{"bank", "chase", "wellsfargo", "capitalone", "paypal", "amex"}},
	{CategorySocial, []string{"facebook", "instagram", "x.com", "twitter", "reddit", "tiktok", "snapchat"}},
	{CategoryDeveloper, []string{"github", "gitlab", "bitbucket", "aws", "azure", "cloudflare"}},
}

// ClassifyCategory derives the triage category from domain and service name.
func ClassifyCategory(domain, service string) Category {
	label := strings.ToLower(domain + " " + service)
	for _, group := range categoryTokens {
		for _, token := range group.tokens {
			if strings.Contains(label, token) {
				return group.category
			}
		}
	}
	return CategoryOther
}
