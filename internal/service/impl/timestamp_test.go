package impl

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeTimestamp(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		raw         time.Time
		provided    bool
		want        time.Time
		wantClamped bool
	}{
		{
			name:        "absent falls back to now",
			provided:    false,
			want:        now,
			wantClamped: true,
		},
		{
			name:        "zero value falls back to now",
			raw:         time.Time{},
			provided:    true,
			want:        now,
			wantClamped: true,
		},
		{
			name:     "plausible value passes through",
			raw:      now.Add(-48 * time.Hour),
			provided: true,
			want:     now.Add(-48 * time.Hour),
		},
		{
			name:     "slight future drift tolerated",
			raw:      now.Add(30 * time.Minute),
			provided: true,
			want:     now.Add(30 * time.Minute),
		},
		{
			name:        "far future clamped",
			raw:         now.Add(2 * time.Hour),
			provided:    true,
			want:        now,
			wantClamped: true,
		},
		{
			name:        "unset clock epoch clamped",
			raw:         time.Unix(0, 0).UTC(),
			provided:    true,
			want:        now,
			wantClamped: true,
		},
		{
			name:        "pre-2020 garbage clamped",
			raw:         time.Date(2011, time.June, 1, 0, 0, 0, 0, time.UTC),
			provided:    true,
			want:        now,
			wantClamped: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, clamped := sanitizeTimestamp(tt.raw, tt.provided, now)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantClamped, clamped)
		})
	}
}

func TestHasRealMtime(t *testing.T) {
	uploaded := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

	assert.False(t, hasRealMtime(uploaded, uploaded))
	assert.False(t, hasRealMtime(uploaded.Add(-3*time.Second), uploaded))
	assert.False(t, hasRealMtime(uploaded.Add(5*time.Second), uploaded))
	assert.True(t, hasRealMtime(uploaded.Add(-6*time.Second), uploaded))
	assert.True(t, hasRealMtime(uploaded.Add(-time.Hour), uploaded))
}

func TestNormalizeSaveKey(t *testing.T) {
	assert.Equal(t, "saves/gb/pokemon.srm", normalizeSaveKey(`saves\gb\pokemon.srm`))
	assert.Equal(t, "a b", normalizeSaveKey("  a \t\n b  "))
	assert.Equal(t, "", normalizeSaveKey("   "))
}

func TestNormalizeLocalPath(t *testing.T) {
	assert.Equal(t, "/saves/gb/pokemon.srm", normalizeLocalPath("saves/gb/pokemon.srm"))
	assert.Equal(t, "/saves/gb/pokemon.srm", normalizeLocalPath(`\saves\gb\pokemon.srm`))
	// Netplay sessions write under .netplay but it's the same logical save.
	assert.Equal(t, "/saves/gb/pokemon.srm", normalizeLocalPath("/saves/.netplay/gb/pokemon.srm"))
}

func TestContainsTraversal(t *testing.T) {
	assert.True(t, containsTraversal("/saves/../../etc/passwd"))
	assert.True(t, containsTraversal(`saves\..\secret`))
	assert.False(t, containsTraversal("/saves/gb/pokemon..srm"))
}

func TestBasename(t *testing.T) {
	assert.Equal(t, "pokemon.srm", basename("/saves/gb/pokemon.srm"))
	assert.Equal(t, "pokemon.srm", basename(`saves\gb\pokemon.srm`))
	assert.Equal(t, "pokemon.srm", basename("pokemon.srm"))
}
