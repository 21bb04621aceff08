package config

// AutomationProfile holds optional browser-automation hints for a site.
type AutomationProfile struct {
	Enabled   bool              `json:"enabled"`
	Selectors map[string]string `json:"selectors"`
}

// SiteProfile supplies per-domain remediation URLs and automation hints.
// Consumed read-only by the action executor.
type SiteProfile struct {
	ChangePasswordURL string            `json:"change_password_url"`
	DeleteAccountURL  string            `json:"delete_account_url"`
	Automation        AutomationProfile `json:"automation"`
}

// SiteProfiles is the keyed-by-domain remediation profile document.
type SiteProfiles struct {
	Profiles map[string]SiteProfile `json:"profiles"`
}

// For returns the profile for a domain; the zero profile when unknown.
func (p SiteProfiles) For(domain string) SiteProfile {
	return p.Profiles[domain]
}

// DefaultSiteProfiles seeds profiles for a few high-value sites. Automation
// stays disabled until the operator verifies the selectors.
func DefaultSiteProfiles() SiteProfiles {
	return SiteProfiles{Profiles: map[string]SiteProfile{
		"google.com": {
			ChangePasswordURL: "https://myaccount.google.com/signinoptions/password",
			DeleteAccountURL:  "https://myaccount.google.com/delete-services-or-account",
			Automation: AutomationProfile{
				Enabled: false,
				Selectors: map[string]string{
					"current_password":      "input[type='password'][name='Passwd']",
					"new_password":          "input[type='password'][name='password']",
					"confirm_password":      "input[type='password'][name='confirmation_password']",
					"submit_button":         "button[type='submit']",
					"delete_confirm_button": "button[type='submit']",
				},
			},
		},
		"facebook.com": {
			ChangePasswordURL: "https://www.facebook.com/settings?tab=security",
			DeleteAccountURL:  "https://www.facebook.com/help/delete_account",
			Automation:        AutomationProfile{Enabled: false, Selectors: map[string]string{}},
		},
		"github.com": {
			ChangePasswordURL: "https://github.com/settings/security",
			DeleteAccountURL:  "https://github.com/settings/admin",
			Automation: AutomationProfile{
				Enabled: false,
				Selectors: map[string]string{
					"current_password":      "input#password",
					"new_password":          "input#new_password",
					"confirm_password":      "input#confirm_password",
					"submit_button":         "button[type='submit']",
					"delete_confirm_button": "button[type='submit']",
				},
			},
		},
	}}
}
