package trader

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/SteveDok22/TradeSim-Pro/src/model"
)

// Tokens persist between CLI invocations in ~/.tradesim/session.json, so one
// login covers a whole series of commands.

func sessionPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".tradesim", "session.json"), nil
}

// LoadTokens reads the stored token pair. Returns an empty pair when no
// session file exists.
func LoadTokens() (model.TokenPair, error) {
	path, err := sessionPath()
	if err != nil {
		return model.TokenPair{}, err
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return model.TokenPair{}, nil
	}
	if err != nil {
		return model.TokenPair{}, err
	}

	var tokens model.TokenPair
	if err := json.Unmarshal(raw, &tokens); err != nil {
		return model.TokenPair{}, err
	}
	return tokens, nil
}

// SaveTokens writes the token pair, creating ~/.tradesim if needed.
func SaveTokens(tokens model.TokenPair) error {
	path, err := sessionPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	raw, err := json.Marshal(tokens)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o600)
}

// ClearTokens deletes the session file. Missing files are fine.
func ClearTokens() error {
	path, err := sessionPath()
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
