package dispatch

import (
	"strings"

	"ml-pipeline/core/models"
)

// Locate returns the single artifact whose name contains bundle.
// Zero matches is ManifestNotFound; more than one is AmbiguousManifest.
func Locate(artifacts []models.ArtifactRef, bundle string) (models.ArtifactRef, error) {
	if bundle == "" {
		return models.ArtifactRef{}, errorf(ManifestNotFound, "no bundle identifier configured")
	}

	var matches []models.ArtifactRef
	for _, artifact := range artifacts {
		if strings.Contains(artifact.Name, bundle) {
			matches = append(matches, artifact)
		}
	}

	switch len(matches) {
	case 0:
		return models.ArtifactRef{}, errorf(ManifestNotFound, "no input artifact matches %q (%d artifacts)", bundle, len(artifacts))
	case 1:
		return matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.Name
		}
		return models.ArtifactRef{}, errorf(AmbiguousManifest, "%d input artifacts match %q: %s", len(matches), bundle, strings.Join(names, ", "))
	}
}
