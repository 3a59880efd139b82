package session

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

type promptValidator func(string) (bool, string)

type promptConfig struct {
	tries     int
	validator promptValidator
}

type promptOption func(*promptConfig)

func withValidator(v promptValidator) promptOption {
	return func(cfg *promptConfig) {
		cfg.validator = v
	}
}

func withMaxTries(i int) promptOption {
	return func(cfg *promptConfig) {
		cfg.tries = i
	}
}

// prompt writes text and reads one trimmed line, asking again while the validator rejects it.
func prompt(r *bufio.Reader, w io.Writer, text string, opts ...promptOption) (string, error) {
	config := &promptConfig{}
	for _, opt := range opts {
		opt(config)
	}

	tries := 0
	for {
		if _, err := io.WriteString(w, text); err != nil {
			return "", err
		}

		line, err := r.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}
		line = strings.TrimSpace(line)

		if config.validator != nil {
			ok, msg := config.validator(line)
			if !ok {
				_, _ = io.WriteString(w, msg)

				tries++
				if config.tries > 0 && config.tries == tries {
					_, _ = io.WriteString(w, "Too many tries.\n")
					return "", fmt.Errorf("too many tries")
				}
				continue
			}
		}

		return line, nil
	}
}
