package main

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestGenerateFlagDefaults(t *testing.T) {
	app := &cli.App{Commands: []*cli.Command{generateCommand}, Writer: io.Discard}
	require.NoError(t, app.Run([]string{"arcenciel", "generate", "--help"}))

	require.Equal(t, "./output/", pathFlag.Value)
	require.Equal(t, true, memFlag.Value)
	require.Equal(t, 100, chainFlag.Value)
	require.Equal(t, 7, lengthFlag.Value)
}

func TestSearchRequiresAHashSource(t *testing.T) {
	app := &cli.App{Commands: []*cli.Command{searchCommand}, Writer: io.Discard}
	err := app.Run([]string{"arcenciel", "search", "--path", t.TempDir()})
	require.Error(t, err)
}

func TestTargetHashesRejectsMalformedDigest(t *testing.T) {
	app := &cli.App{Commands: []*cli.Command{searchCommand}, Writer: io.Discard}
	err := app.Run([]string{"arcenciel", "search", "--hash", "not-hex"})
	require.Error(t, err)
}
