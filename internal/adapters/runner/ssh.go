package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/bft-labs/tablestress/internal/domain"
)

const defaultSSHPort = "22"

// SSHRunner executes commands on a cluster node, for operators who drive the
// admin CLI from outside the cluster. A fresh connection is opened per
// command, so the value is safe to share between workers.
type SSHRunner struct {
	Host    string
	Port    string
	User    string
	KeyPath string
	// KnownHosts defaults to ~/.ssh/known_hosts.
	KnownHosts string
	Insecure   bool
	Timeout    time.Duration
}

// Run executes cmd on the node. Cancelling ctx aborts the dial or closes the
// session, which terminates the remote command.
func (r SSHRunner) Run(ctx context.Context, cmd domain.Command) domain.Result {
	start := time.Now()
	res := domain.Result{Command: cmd}
	finish := func(err error, code int) domain.Result {
		res.Err = err
		res.ExitCode = code
		res.Duration = time.Since(start)
		return res
	}

	client, err := r.connect(ctx)
	if err != nil {
		return finish(err, ExitCodeNotRunnable)
	}
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return finish(fmt.Errorf("ssh session on %s: %w", r.Host, err), ExitCodeNotRunnable)
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	done := make(chan error, 1)
	go func() { done <- session.Run(joinCommand(cmd)) }()

	select {
	case err = <-done:
	case <-ctx.Done():
		session.Close()
		<-done
		err = ctx.Err()
	}

	res.Stdout = stdout.Bytes()
	res.Stderr = stderr.Bytes()
	var exitErr *ssh.ExitError
	switch {
	case err == nil:
		return finish(nil, 0)
	case errors.As(err, &exitErr):
		return finish(err, exitErr.ExitStatus())
	default:
		return finish(err, 1)
	}
}

// connect opens an authenticated client connection to the node.
func (r SSHRunner) connect(ctx context.Context) (*ssh.Client, error) {
	addr, err := r.target()
	if err != nil {
		return nil, err
	}
	cfg, err := r.clientConfig()
	if err != nil {
		return nil, err
	}

	dialer := net.Dialer{Timeout: r.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("ssh dial %s: %w", addr, err)
	}
	c, chans, reqs, err := ssh.NewClientConn(conn, addr, cfg)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("ssh handshake with %s: %w", addr, err)
	}
	return ssh.NewClient(c, chans, reqs), nil
}

// target returns host:port. A port embedded in Host is kept when Port is empty.
func (r SSHRunner) target() (string, error) {
	host := strings.TrimSpace(r.Host)
	switch {
	case host == "":
		return "", fmt.Errorf("%w: ssh host is required", domain.ErrInvalidConfig)
	case r.Port != "":
		return net.JoinHostPort(host, r.Port), nil
	}
	if _, _, err := net.SplitHostPort(host); err == nil {
		return host, nil
	}
	return net.JoinHostPort(host, defaultSSHPort), nil
}

func (r SSHRunner) clientConfig() (*ssh.ClientConfig, error) {
	if r.User == "" {
		return nil, fmt.Errorf("%w: ssh user is required", domain.ErrInvalidConfig)
	}
	if r.KeyPath == "" {
		return nil, fmt.Errorf("%w: ssh key is required", domain.ErrInvalidConfig)
	}

	pem, err := os.ReadFile(r.KeyPath)
	if err != nil {
		return nil, fmt.Errorf("read ssh key: %w", err)
	}
	signer, err := ssh.ParsePrivateKey(pem)
	if err != nil {
		return nil, fmt.Errorf("parse ssh key %s: %w", r.KeyPath, err)
	}

	hostKeys := ssh.InsecureIgnoreHostKey()
	if !r.Insecure {
		file := r.KnownHosts
		if file == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("locate known_hosts: %w", err)
			}
			file = filepath.Join(home, ".ssh", "known_hosts")
		}
		if hostKeys, err = knownhosts.New(file); err != nil {
			return nil, fmt.Errorf("load known_hosts: %w", err)
		}
	}

	return &ssh.ClientConfig{
		User:            r.User,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: hostKeys,
		Timeout:         r.Timeout,
	}, nil
}

// joinCommand renders cmd for the remote shell with every word single-quoted.
func joinCommand(cmd domain.Command) string {
	words := make([]string, 0, len(cmd.Args)+1)
	for _, w := range append([]string{cmd.Name}, cmd.Args...) {
		words = append(words, "'"+strings.ReplaceAll(w, "'", `'"'"'`)+"'")
	}
	return strings.Join(words, " ")
}
