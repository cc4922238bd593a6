package manifest

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleManifest() *SiteManifest {
	m := New(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), Inputs{
		Root:         "/sdk",
		BaseURL:      "/",
		SourceCommit: "abc123",
		Packages:     []string{"addon-kit", "api-utils"},
	})
	m.AddPage(Page{Path: "index.html", Kind: "index"})
	m.AddPage(Page{Path: "packages/addon-kit/addon-kit.html", Kind: "package", Source: "packages/addon-kit/README.md", Fingerprint: "f1"})
	m.Status = StatusSuccess
	m.Duration = 42
	return m
}

func TestNew_AssignsUUID(t *testing.T) {
	m := sampleManifest()
	_, err := uuid.Parse(m.ID)
	require.NoError(t, err)
	assert.NotEqual(t, m.ID, sampleManifest().ID)
}

func TestManifestSerialization(t *testing.T) {
	m := sampleManifest()

	data, err := m.ToJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"duration_ms": 42`)

	restored, err := FromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, m, restored)
}

func TestFromJSON_Invalid(t *testing.T) {
	_, err := FromJSON([]byte("{"))
	require.Error(t, err)
}

func TestHash_IgnoresIdentityAndPageOrder(t *testing.T) {
	a := sampleManifest()
	b := sampleManifest()
	b.Timestamp = b.Timestamp.Add(time.Hour)
	b.Pages[0], b.Pages[1] = b.Pages[1], b.Pages[0]

	ha, err := a.Hash()
	require.NoError(t, err)
	hb, err := b.Hash()
	require.NoError(t, err)
	assert.Equal(t, ha, hb)
	assert.Len(t, ha, 64)

	b.Pages[0].Fingerprint = "changed"
	hc, err := b.Hash()
	require.NoError(t, err)
	assert.NotEqual(t, ha, hc)
}
