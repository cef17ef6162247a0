package main

import (
	"log/slog"
	"testing"

	"pharmacy/cmd"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_ReturnsStartupErrors(t *testing.T) {
	t.Chdir(t.TempDir())
	configs, err := cmd.LoadConfigFrom([]string{})
	require.NoError(t, err)
	configs.Storage = cmd.StorageMemory
	configs.Jobs.Enabled = true
	configs.Jobs.OfferExpiry = "not a schedule"

	err = run(configs, slog.New(slog.DiscardHandler))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "start jobs")
}
