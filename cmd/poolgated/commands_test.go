package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insurepool/poolgate/ledgerapi/config"
	"github.com/insurepool/poolgate/ledgerapi/constant"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "poolgated")
	assert.Contains(t, out, Version)
}

func TestInitCommand(t *testing.T) {
	home := t.TempDir()

	out, err := execute(t, "init", "--home", home)
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(home, constant.ConfigSubdir, constant.ConfigFileName))

	cfg, err := config.Load(home)
	require.NoError(t, err)
	assert.Equal(t, home, cfg.NodeHome)
	assert.Equal(t, 8080, cfg.HTTPPort)

	_, err = execute(t, "init", "--home", home)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config already exists")
}

func TestStartCommandWithoutConfig(t *testing.T) {
	_, err := execute(t, "start", "--home", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}
