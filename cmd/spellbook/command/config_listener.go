package command

import (
	"fmt"
	"log/slog"
	"net"
	"strconv"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-service"
	"golang.org/x/crypto/ssh"

	"github.com/pixil98/go-spellbook/internal/listener"
)

type ListenerType int

const (
	ListenerTypeTelnet ListenerType = iota
	ListenerTypeSSH
)

func (lt *ListenerType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "telnet":
		*lt = ListenerTypeTelnet
	case "ssh":
		*lt = ListenerTypeSSH
	default:
		return fmt.Errorf("unknown listener type: %s", text)
	}
	return nil
}

func (lt ListenerType) String() string {
	if lt == ListenerTypeSSH {
		return "ssh"
	}
	return "telnet"
}

// ListenerConfig is one player-facing endpoint. Ssh players are named by their ssh user.
type ListenerConfig struct {
	Protocol    ListenerType `json:"protocol"`
	Host        string       `json:"host,omitempty"`
	Port        uint16       `json:"port"`
	HostKeyPath string       `json:"host_key_path,omitempty"`
}

func (cl *ListenerConfig) validate() error {
	el := errors.NewErrorList()

	if cl.Port == 0 {
		el.Add(fmt.Errorf("port must be set to a positive integer"))
	}
	if cl.Protocol != ListenerTypeSSH && cl.HostKeyPath != "" {
		el.Add(fmt.Errorf("host_key_path only applies to ssh listeners"))
	}

	return el.Err()
}

// addr is host:port; an empty host listens on every interface.
func (cl *ListenerConfig) addr() string {
	return net.JoinHostPort(cl.Host, strconv.Itoa(int(cl.Port)))
}

func (cl *ListenerConfig) buildListener(cm *listener.ConnectionManager) (service.Worker, error) {
	switch cl.Protocol {
	case ListenerTypeTelnet:
		return listener.NewTelnetListener(cl.addr(), cm), nil
	case ListenerTypeSSH:
		var hostKey ssh.Signer
		var err error
		if cl.HostKeyPath != "" {
			hostKey, err = listener.LoadHostKey(cl.HostKeyPath)
		} else {
			slog.Warn("no host_key_path configured for ssh listener, generating ephemeral key", "addr", cl.addr())
			hostKey, err = listener.GenerateHostKey()
		}
		if err != nil {
			return nil, fmt.Errorf("setting up ssh host key: %w", err)
		}
		return listener.NewSshListener(cl.addr(), cm, hostKey), nil
	default:
		return nil, fmt.Errorf("unknown listener type: %v", cl.Protocol)
	}
}
