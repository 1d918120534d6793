package bulldoggy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionInfo(t *testing.T) {
	saved := BuildInfo
	t.Cleanup(func() { BuildInfo = saved })

	assert.Equal(t, "Bulldoggy "+Version, VersionInfo())

	SetBuildInfo("0123456789abcdef", "2026-01-02")
	assert.Equal(t, "Bulldoggy "+Version+" (0123456)", VersionInfo())

	full := FullVersionInfo()
	assert.Contains(t, full, "Git Commit: 0123456789abcdef\n")
	assert.Contains(t, full, "Build Date: 2026-01-02\n")
	assert.Contains(t, full, "Go Version: ")
}

func TestFullVersionInfo_NoBuildMetadata(t *testing.T) {
	saved := BuildInfo
	t.Cleanup(func() { BuildInfo = saved })
	SetBuildInfo("", "")

	full := FullVersionInfo()
	assert.NotContains(t, full, "Git Commit")
	assert.NotContains(t, full, "Build Date")
}
