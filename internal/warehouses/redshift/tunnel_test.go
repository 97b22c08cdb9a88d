package redshift

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/datascribe-labs/datascribe-cli/internal/core/domain"
)

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	assert.Equal(t, filepath.Join(home, ".ssh", "id_ed25519"), expandHome("~/.ssh/id_ed25519"))
	assert.Equal(t, "/abs/key", expandHome("/abs/key"))
	assert.Equal(t, "relative/key", expandHome("relative/key"))
}

func TestStartTunnel_MissingKey(t *testing.T) {
	cfg := &domain.SSHTunnelConfig{
		Host:           "bastion.internal",
		User:           "tunnel",
		PrivateKeyPath: filepath.Join(t.TempDir(), "no-such-key"),
	}

	tunnel, err := startTunnel(cfg, "db.internal", 5439)

	assert.Nil(t, tunnel)
	assert.ErrorContains(t, err, "read ssh key")
}

func TestStartTunnel_GarbageKey(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), "key")
	assert.NoError(t, os.WriteFile(keyPath, []byte("not a key"), 0o600))
	cfg := &domain.SSHTunnelConfig{
		Host:           "bastion.internal",
		User:           "tunnel",
		PrivateKeyPath: keyPath,
	}

	tunnel, err := startTunnel(cfg, "db.internal", 5439)

	assert.Nil(t, tunnel)
	assert.ErrorContains(t, err, "parse ssh key")
}
