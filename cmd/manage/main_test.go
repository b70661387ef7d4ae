package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandTree(t *testing.T) {
	root := newRootCmd()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"migrate", "cleanup", "stock-review", "seed"})
}

func TestCleanupFlags(t *testing.T) {
	cmd, _, err := newRootCmd().Find([]string{"cleanup"})
	require.NoError(t, err)

	require.NoError(t, cmd.ParseFlags([]string{"--days", "7", "--expired-only"}))
	days, err := cmd.Flags().GetInt("days")
	require.NoError(t, err)
	assert.Equal(t, 7, days)
	assert.True(t, cmd.Flags().Changed("days"))

	expiredOnly, err := cmd.Flags().GetBool("expired-only")
	require.NoError(t, err)
	assert.True(t, expiredOnly)
}
