package notify

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"sync"
)

var ErrInvalidWebhookURL = errors.New("invalid webhook url")

// Settings is the process-wide notification configuration: a single
// destination URL, readable and writable at runtime (the builder exposes
// admin endpoints for it) and persisted to a small JSON file so it survives
// restarts. Default is empty, which disables delivery.
type Settings struct {
	mu   sync.RWMutex
	url  string
	path string
}

type settingsFile struct {
	URL string `json:"url"`
}

// LoadSettings reads the persisted destination, if any. A missing or
// unreadable file just means "not configured yet".
func LoadSettings(path string) *Settings {
	s := &Settings{path: path}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[notify][settings] read failed path=%s err=%v", path, err)
		}
		return s
	}

	var f settingsFile
	if err := json.Unmarshal(raw, &f); err != nil {
		log.Printf("[notify][settings] decode failed path=%s err=%v", path, err)
		return s
	}
	s.url = f.URL
	return s
}

func (s *Settings) URL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.url
}

// SetURL validates, persists and applies a new destination. An empty string
// turns delivery off.
func (s *Settings) SetURL(raw string) error {
	if raw != "" {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return ErrInvalidWebhookURL
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist(raw); err != nil {
		return err
	}
	s.url = raw
	log.Printf("[notify][settings] webhook url updated configured=%t", raw != "")
	return nil
}

func (s *Settings) persist(raw string) error {
	out, err := json.Marshal(settingsFile{URL: raw})
	if err != nil {
		return fmt.Errorf("encode webhook settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".webhook.tmp-*")
	if err != nil {
		return fmt.Errorf("write webhook settings: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write webhook settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write webhook settings: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write webhook settings: %w", err)
	}
	return nil
}
