package redshift

import (
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/datascribe-labs/datascribe-cli/internal/core/domain"
	"github.com/datascribe-labs/datascribe-cli/internal/logger"
)

// sshTunnel forwards a local listener to the remote bind address through
// an SSH connection, so the warehouse session never needs a direct
// network path to the cluster.
type sshTunnel struct {
	client    *ssh.Client
	listener  net.Listener
	localHost string
	localPort int
}

// startTunnel dials the bastion and starts forwarding to
// remoteHost:remotePort on an OS-picked local port.
func startTunnel(cfg *domain.SSHTunnelConfig, remoteHost string, remotePort int) (*sshTunnel, error) {
	keyPath := expandHome(cfg.PrivateKeyPath)
	key, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("read ssh key: %w", err)
	}

	var signer ssh.Signer
	if cfg.PrivateKeyPassphrase != "" {
		signer, err = ssh.ParsePrivateKeyWithPassphrase(key, []byte(cfg.PrivateKeyPassphrase))
	} else {
		signer, err = ssh.ParsePrivateKey(key)
	}
	if err != nil {
		return nil, fmt.Errorf("parse ssh key: %w", err)
	}

	sshPort := cfg.Port
	if sshPort == 0 {
		sshPort = 22
	}
	clientCfg := &ssh.ClientConfig{
		User:            cfg.User,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec // bastion host keys are not pinned in config
		Timeout:         10 * time.Second,
	}

	client, err := ssh.Dial("tcp", fmt.Sprintf("%s:%d", cfg.Host, sshPort), clientCfg)
	if err != nil {
		return nil, fmt.Errorf("ssh dial: %w", err)
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("tunnel listen: %w", err)
	}

	t := &sshTunnel{
		client:    client,
		listener:  listener,
		localHost: "127.0.0.1",
		localPort: listener.Addr().(*net.TCPAddr).Port,
	}
	go t.serve(fmt.Sprintf("%s:%d", remoteHost, remotePort))

	logger.Debug("ssh tunnel up: 127.0.0.1:%d -> %s:%d via %s", t.localPort, remoteHost, remotePort, cfg.Host)
	return t, nil
}

func (t *sshTunnel) serve(remoteAddr string) {
	for {
		local, err := t.listener.Accept()
		if err != nil {
			return
		}
		go t.forward(local, remoteAddr)
	}
}

func (t *sshTunnel) forward(local net.Conn, remoteAddr string) {
	remote, err := t.client.Dial("tcp", remoteAddr)
	if err != nil {
		logger.Debug("ssh tunnel dial %s: %v", remoteAddr, err)
		_ = local.Close()
		return
	}
	go func() {
		_, _ = io.Copy(remote, local)
		_ = remote.Close()
	}()
	_, _ = io.Copy(local, remote)
	_ = local.Close()
}

// Close stops accepting connections and tears down the SSH session.
func (t *sshTunnel) Close() error {
	_ = t.listener.Close()
	return t.client.Close()
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
