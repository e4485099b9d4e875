package models

// VersionInfo is the result of an update check
type VersionInfo struct {
	CurrentVersion  string  `json:"current_version"`
	LatestVersion   *string `json:"latest_version,omitempty"`
	UpdateAvailable bool    `json:"update_available"`
	ReleaseURL      *string `json:"release_url,omitempty"`
	ReleaseNotes    *string `json:"release_notes,omitempty"`
}
