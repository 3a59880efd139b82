package listener

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"log/slog"
	"net"
	"os"

	"golang.org/x/crypto/ssh"
)

// LoadHostKey reads a PEM encoded private key for the ssh listener.
func LoadHostKey(path string) (ssh.Signer, error) {
	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading host key: %w", err)
	}
	signer, err := ssh.ParsePrivateKey(pem)
	if err != nil {
		return nil, fmt.Errorf("parsing host key: %w", err)
	}
	return signer, nil
}

// GenerateHostKey makes an ephemeral ed25519 host key. Clients will see it change on
// every restart.
func GenerateHostKey() (ssh.Signer, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generating host key: %w", err)
	}
	signer, err := ssh.NewSignerFromKey(priv)
	if err != nil {
		return nil, fmt.Errorf("creating signer: %w", err)
	}
	return signer, nil
}

// SshListener serves spell sessions over ssh. The ssh user becomes the player name, so
// players that log in as themselves skip the name prompt.
type SshListener struct {
	addr   string
	cm     *ConnectionManager
	config *ssh.ServerConfig
}

func NewSshListener(addr string, cm *ConnectionManager, hostKey ssh.Signer) *SshListener {
	config := &ssh.ServerConfig{
		NoClientAuth: true,
	}
	config.AddHostKey(hostKey)

	return &SshListener{
		addr:   addr,
		cm:     cm,
		config: config,
	}
}

func (l *SshListener) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", l.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", l.addr, err)
	}
	slog.InfoContext(ctx, "listening for ssh", "addr", ln.Addr().String())

	sessions := newSessionGroup(ctx)
	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				sessions.close()
				return nil
			}
			slog.ErrorContext(ctx, "accepting ssh connection", "error", err)
			continue
		}

		sessions.spawn(func(sctx context.Context) {
			l.serveConn(sctx, conn)
		})
	}
}

func (l *SshListener) serveConn(ctx context.Context, conn net.Conn) {
	defer func() { _ = conn.Close() }()

	sshConn, chans, reqs, err := ssh.NewServerConn(conn, l.config)
	if err != nil {
		slog.WarnContext(ctx, "ssh handshake", "remote", conn.RemoteAddr(), "error", err)
		return
	}
	defer func() { _ = sshConn.Close() }()

	// Unblocks the channel loop on shutdown.
	stop := context.AfterFunc(ctx, func() { _ = sshConn.Close() })
	defer stop()

	go ssh.DiscardRequests(reqs)

	peer := Peer{Protocol: "ssh", Remote: conn.RemoteAddr().String(), User: sshConn.User()}
	for newChan := range chans {
		if newChan.ChannelType() != "session" {
			_ = newChan.Reject(ssh.UnknownChannelType, "unknown channel type")
			continue
		}

		ch, requests, err := newChan.Accept()
		if err != nil {
			slog.WarnContext(ctx, "accepting ssh channel", "error", err)
			continue
		}

		if !waitForShell(ctx, requests) {
			_ = ch.Close()
			continue
		}

		l.cm.AcceptConnection(ctx, ch, peer)
		_ = ch.Close()
	}
}

// waitForShell answers channel requests and reports whether a shell was granted. Clients
// do not forward input until they get the shell reply. PTYs are refused so the client
// keeps local echo and line buffering.
func waitForShell(ctx context.Context, requests <-chan *ssh.Request) bool {
	shell := make(chan struct{})
	go func() {
		granted := false
		for req := range requests {
			ok := req.Type == "shell" && !granted
			_ = req.Reply(ok, nil)
			if ok {
				granted = true
				close(shell)
			}
		}
	}()

	select {
	case <-shell:
		return true
	case <-ctx.Done():
		return false
	}
}
