package service

import (
	"fmt"

	"github.com/lockplane/keygate/pkg/versionx"
)

// UpdateInfo is the outcome of an update check. DownloadURL and Changelog
// are only populated when an update is available.
type UpdateInfo struct {
	UpdateAvailable bool
	LatestVersion   string
	DownloadURL     string
	Changelog       string
}

// UpdateService gates loader self-updates against the latest published
// version.
type UpdateService struct {
	latest      versionx.Version
	downloadURL string
	changelog   string
}

// NewUpdateService validates the configured latest version up front; a
// malformed published version is a deployment mistake, not a per-request
// condition.
func NewUpdateService(latestVersion, downloadURL, changelog string) (*UpdateService, error) {
	latest, err := versionx.Parse(latestVersion)
	if err != nil {
		return nil, fmt.Errorf("update service: latest version: %w", err)
	}
	return &UpdateService{
		latest:      latest,
		downloadURL: downloadURL,
		changelog:   changelog,
	}, nil
}

// Check reports whether clientVersion is older than the latest published
// build. A malformed client version propagates versionx.ErrMalformed; the
// caller decides policy (the HTTP layer rejects it, other callers may choose
// to treat unparsable versions as out of date).
func (s *UpdateService) Check(clientVersion string) (UpdateInfo, error) {
	client, err := versionx.Parse(clientVersion)
	if err != nil {
		return UpdateInfo{}, err
	}

	info := UpdateInfo{LatestVersion: s.latest.String()}
	if client.Compare(s.latest) == versionx.Older {
		info.UpdateAvailable = true
		info.DownloadURL = s.downloadURL
		info.Changelog = s.changelog
	}
	return info, nil
}
