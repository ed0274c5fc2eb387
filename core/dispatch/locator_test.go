package dispatch

import (
	"errors"
	"testing"

	"ml-pipeline/core/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func artifact(name string) models.ArtifactRef {
	return models.ArtifactRef{Name: name, Location: models.S3Location{Bucket: "b", Key: name + ".zip"}}
}

func TestLocate(t *testing.T) {
	tests := []struct {
		name      string
		artifacts []models.ArtifactRef
		bundle    string
		want      string
		kind      Kind
	}{
		{"single match", []models.ArtifactRef{artifact("source_output"), artifact("build_output_v1")}, "build_output", "build_output_v1", ""},
		{"substring match", []models.ArtifactRef{artifact("MyAppBuild")}, "AppBuild", "MyAppBuild", ""},
		{"no artifacts", nil, "build_output", "", ManifestNotFound},
		{"no match", []models.ArtifactRef{artifact("source_output")}, "build_output", "", ManifestNotFound},
		{"case sensitive", []models.ArtifactRef{artifact("BUILD_OUTPUT")}, "build_output", "", ManifestNotFound},
		{"empty bundle", []models.ArtifactRef{artifact("build_output")}, "", "", ManifestNotFound},
		{"two matches", []models.ArtifactRef{artifact("build_output_a"), artifact("build_output_b")}, "build_output", "", AmbiguousManifest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Locate(tt.artifacts, tt.bundle)
			if tt.kind == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got.Name)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.kind, KindOf(err))
		})
	}
}

func TestLocateErrorsMatchSentinels(t *testing.T) {
	_, err := Locate(nil, "build_output")
	assert.True(t, errors.Is(err, ErrManifestNotFound))
	assert.False(t, errors.Is(err, ErrAmbiguousManifest))

	_, err = Locate([]models.ArtifactRef{artifact("build_output_a"), artifact("build_output_b")}, "build_output")
	assert.True(t, errors.Is(err, ErrAmbiguousManifest))
	assert.Contains(t, err.Error(), "build_output_a, build_output_b")
}
