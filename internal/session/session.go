package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pixil98/go-spellbook/internal/commands"
	"github.com/pixil98/go-spellbook/internal/spellsync"
)

type session struct {
	conn    io.Writer
	reader  *bufio.Reader
	handler *commands.Handler
	mirror  *spellsync.Mirror
	msgs    <-chan []byte
	cc      *commands.CommandContext
}

func (s *session) play(ctx context.Context, tickLength time.Duration) error {
	inputChan := make(chan string)
	inputErrChan := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)
	go func() {
		defer close(inputChan)
		for {
			line, err := s.reader.ReadString('\n')
			if line != "" {
				select {
				case inputChan <- line:
				case <-done:
					return
				}
			}
			if err != nil {
				if err != io.EOF {
					inputErrChan <- err
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(tickLength)
	defer ticker.Stop()

	if err := s.prompt(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-ticker.C:
			s.mirror.Tick()

		case msg := <-s.msgs:
			if err := s.writeLine("\n" + string(msg)); err != nil {
				return err
			}
			if err := s.prompt(); err != nil {
				return err
			}

		case line, ok := <-inputChan:
			if !ok {
				select {
				case err := <-inputErrChan:
					return err
				default:
					return nil
				}
			}

			err := s.handler.Exec(ctx, s.cc, strings.TrimSpace(line))
			if err != nil {
				var userErr *commands.UserError
				if !errors.As(err, &userErr) {
					return fmt.Errorf("command execution failed: %w", err)
				}
				if err := s.writeLine(userErr.Message); err != nil {
					return err
				}
			}

			if s.cc.Quit {
				return s.writeLine("Goodbye!")
			}
			if err := s.prompt(); err != nil {
				return err
			}
		}
	}
}

func (s *session) prompt() error {
	_, err := io.WriteString(s.conn, "> ")
	return err
}

func (s *session) writeLine(msg string) error {
	_, err := io.WriteString(s.conn, msg+"\n")
	return err
}
