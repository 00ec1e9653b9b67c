// Package config хранит локальное состояние CLI-клиента authctl:
// токен сессии, email и адрес сервера, на котором получен токен.
//
// Файл по умолчанию:
//
//	~/.sysane/credentials.json
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Credentials — сохранённая сессия CLI.
type Credentials struct {
	// AccessToken хранится без префикса "Bearer ".
	AccessToken string    `json:"access_token"`
	Email       string    `json:"email,omitempty"`
	Server      string    `json:"server,omitempty"`
	SavedAt     time.Time `json:"saved_at,omitempty"`
}

// HasSession сообщает, есть ли сохранённый токен.
func (c *Credentials) HasSession() bool {
	return c != nil && c.AccessToken != ""
}

// DefaultPath возвращает <home>/.sysane/credentials.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".sysane", "credentials.json"), nil
}

// Load читает файл сессии. Отсутствующий файл даёт пустые Credentials.
func Load(path string) (*Credentials, error) {
	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return &Credentials{}, nil
	case err != nil:
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	creds := &Credentials{}
	if err := json.Unmarshal(raw, creds); err != nil {
		return nil, fmt.Errorf("parse credentials %s: %w", path, err)
	}
	return creds, nil
}

// Save записывает файл сессии с правами 0600 (каталог 0700).
// Запись идёт через временный файл и rename, чтобы не оставить обрезанный JSON.
func Save(path string, c *Credentials) error {
	raw, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create credentials dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".credentials-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write credentials: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Remove удаляет файл сессии. Если файла нет, ошибки тоже нет.
func Remove(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}
