package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"chess", "atomic"}, splitList(" chess, ,atomic "))
}

func TestLoadOptions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.Nil(t, os.WriteFile(path, []byte("engine: /opt/stockfish\nname: From File\nmax_hash: 64\n"), 0644))

	configPath = path
	defer func() { configPath = "" }()

	require.Nil(t, rootCmd.Flags().Set("name", "From Flag"))
	require.Nil(t, rootCmd.Flags().Set("variants", "chess,horde"))

	opts, err := loadOptions(rootCmd)
	require.Nil(t, err)
	assert.Equal(t, "/opt/stockfish", opts.Engine)
	assert.Equal(t, "From Flag", opts.Name)
	assert.Equal(t, 64, opts.MaxHash)
	assert.Equal(t, []string{"chess", "horde"}, opts.Variants)
}
