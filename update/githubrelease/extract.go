package githubrelease

import (
	"fmt"

	"github.com/anchore/debup"
)

// Extract returns the release tag and the download URL of the asset whose name exactly matches assetName.
func Extract(release *debup.Release, assetName string) (string, string, error) {
	if release == nil || release.Tag == "" {
		return "", "", fmt.Errorf("%w: release has no tag", debup.ErrMissingField)
	}

	asset := findAsset(release, assetName)
	if asset == nil {
		return "", "", fmt.Errorf("%w: release %q has no asset named %q", debup.ErrMissingField, release.Tag, assetName)
	}

	if asset.URL == "" {
		return "", "", fmt.Errorf("%w: asset %q of release %q has no download URL", debup.ErrMissingField, assetName, release.Tag)
	}

	return release.Tag, asset.URL, nil
}

func findAsset(release *debup.Release, name string) *debup.Asset {
	if release == nil || name == "" {
		return nil
	}
	for i := range release.Assets {
		if release.Assets[i].Name == name {
			return &release.Assets[i]
		}
	}
	return nil
}
