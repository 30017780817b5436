package libs

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/signal"

	rbytes "github.com/beatoz/beatoz-factory/types/bytes"
	"golang.org/x/crypto/ssh/terminal"
)

var ErrNotTerminal = errors.New("not a terminal: set the passphrase in the environment")

func ClearCredential(c []byte) {
	rbytes.ClearBytes(c)
}

// ReadCredentialOrEnv returns the value of the environment variable `envKey` if it is set.
// Otherwise, it prompts for the credential on the terminal.
func ReadCredentialOrEnv(prompt, envKey string) ([]byte, error) {
	if s := os.Getenv(envKey); s != "" {
		return []byte(s), nil
	}
	return ReadCredential(prompt)
}

func ReadCredential(prompt string) ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if !terminal.IsTerminal(fd) {
		return nil, ErrNotTerminal
	}
	return readFromTERM(prompt, fd)
}

func readFromTERM(prompt string, fd int) ([]byte, error) {
	// Get the initial state of the terminal.
	initialTermState, err := terminal.GetState(fd)
	if err != nil {
		return nil, err
	}

	// Restore it in the event of an interrupt.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-c:
			_ = terminal.Restore(fd, initialTermState)
			os.Exit(1)
		case <-done:
		}
	}()

	fmt.Print(prompt)
	p, err := terminal.ReadPassword(fd)
	fmt.Println("")
	signal.Stop(c)
	if err != nil {
		return nil, err
	}
	return bytes.TrimSpace(p), nil
}
