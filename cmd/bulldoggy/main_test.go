package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eleven-am/bulldoggy/pkg/bulldoggy"
)

func TestExecute(t *testing.T) {
	chdir(t, t.TempDir())

	savedArgs := os.Args
	t.Cleanup(func() { os.Args = savedArgs })
	os.Args = []string{"bulldoggy", "version"}

	commit, date = "abcdef1234", "2026-01-02"
	t.Cleanup(func() { commit, date = "", "" })

	require.NoError(t, Execute())
	assert.Equal(t, "abcdef1234", bulldoggy.BuildInfo.GitCommit)
	assert.Equal(t, "2026-01-02", bulldoggy.BuildInfo.BuildDate)
}
