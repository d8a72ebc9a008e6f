package cli

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kada-dev/kada-commute/internal/vault"
	"github.com/kada-dev/kada-commute/pkg/schema"
)

// The logged-in employee is cached under ~/.kada so the console does not ask
// for the name on every command. The file is encrypted at rest; the key is
// derived from KADA_SESSION_KEY, falling back to a fixed local-use phrase.
const sessionFile = "session"

var errNoSession = errors.New("not logged in (run: kada login <name>)")

func sessionKey() []byte {
	secret := os.Getenv("KADA_SESSION_KEY")
	if secret == "" {
		secret = "kada-commute-local-session"
	}
	sum := sha256.Sum256([]byte(secret))
	return sum[:]
}

func sessionPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".kada", sessionFile), nil
}

func saveSession(emp schema.Employee) error {
	path, err := sessionPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := json.Marshal(emp)
	if err != nil {
		return err
	}
	sealed, err := vault.Encrypt(string(data), sessionKey())
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(sealed), 0600)
}

func loadSession() (schema.Employee, error) {
	path, err := sessionPath()
	if err != nil {
		return schema.Employee{}, err
	}

	sealed, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return schema.Employee{}, errNoSession
		}
		return schema.Employee{}, err
	}

	data, err := vault.Decrypt(string(sealed), sessionKey())
	if err != nil {
		return schema.Employee{}, fmt.Errorf("session cache unreadable, log in again: %w", err)
	}

	var emp schema.Employee
	if err := json.Unmarshal([]byte(data), &emp); err != nil {
		return schema.Employee{}, fmt.Errorf("session cache corrupt, log in again: %w", err)
	}
	return emp, nil
}
