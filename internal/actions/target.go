package actions

import (
	"github.com/credential-defense/creddef/internal/config"
	"github.com/credential-defense/creddef/internal/model"
)

// targetURLFor resolves the remediation URL from the site profile, falling
// back to the record's own URL.
func targetURLFor(task model.ActionTask, rec model.CredentialRecord, profile config.SiteProfile) string {
	switch task.ActionType {
	case model.ActionRotatePassword:
		if profile.ChangePasswordURL != "" {
			return profile.ChangePasswordURL
		}
	case model.ActionDeleteAccount:
		if profile.DeleteAccountURL != "" {
			return profile.DeleteAccountURL
		}
	}
	return rec.URL
}
