package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	tests := []struct {
		name     string
		version  string
		commit   string
		settings []debug.BuildSetting
		expected string
	}{
		{
			name:     "development version without commit",
			version:  "development",
			commit:   "unknown",
			expected: "development",
		},
		{
			name:     "release version with commit",
			version:  "1.0.0",
			commit:   "abc1234",
			expected: "1.0.0+abc1234",
		},
		{
			name:    "vcs revision fills a missing commit",
			version: "0.5.0",
			commit:  "unknown",
			settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "def5678aaaabbbb"},
			},
			expected: "0.5.0+def5678",
		},
		{
			name:    "modified tree is marked dirty",
			version: "0.5.0",
			commit:  "unknown",
			settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "def5678"},
				{Key: "vcs.modified", Value: "true"},
			},
			expected: "0.5.0+def5678-dirty",
		},
		{
			name:     "ldflags commit wins over vcs",
			version:  "2.0.0",
			commit:   "1234567",
			settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "fffffff"}},
			expected: "2.0.0+1234567",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			origVersion, origCommit, origRead := Version, Commit, readBuildInfo
			defer func() {
				Version, Commit, readBuildInfo = origVersion, origCommit, origRead
			}()

			Version, Commit = tt.version, tt.commit
			readBuildInfo = func() (*debug.BuildInfo, bool) {
				return &debug.BuildInfo{Settings: tt.settings}, true
			}

			assert.Equal(t, tt.expected, String())
		})
	}
}
