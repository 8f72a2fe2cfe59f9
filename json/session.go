// Package json persists sessions as JSON files.
package json

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/relay"
)

// envelopeVersion is the current wire format version.
const envelopeVersion = 1

// envelope is the v1 wire format for a persisted session.
type envelope struct {
	Version      int       `json:"version"`
	ID           string    `json:"id"`
	SystemPrompt string    `json:"system_prompt,omitempty"`
	Model        string    `json:"model,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Usage        usageDTO  `json:"usage"`
	Turns        []turnDTO `json:"turns"`
}

type turnDTO struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type usageDTO struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// MarshalSession serializes a Session to JSON in v1 envelope format.
func MarshalSession(s relay.Session) ([]byte, error) {
	env := envelope{
		Version:      envelopeVersion,
		ID:           s.ID,
		SystemPrompt: s.SystemPrompt,
		Model:        s.Model,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
		Usage:        usageDTO{InputTokens: s.Usage.InputTokens, OutputTokens: s.Usage.OutputTokens},
		Turns:        make([]turnDTO, len(s.Turns)),
	}
	for i, t := range s.Turns {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("turn %d: %w", i, err)
		}
		env.Turns[i] = turnDTO{Role: string(t.Role), Content: t.Content, Timestamp: t.Timestamp}
	}
	return json.MarshalIndent(env, "", "  ")
}

// UnmarshalSession deserializes a Session from JSON in v1 envelope format.
func UnmarshalSession(data []byte) (relay.Session, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return relay.Session{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Version != envelopeVersion {
		return relay.Session{}, fmt.Errorf("unsupported envelope version: %d", env.Version)
	}
	turns := make([]relay.Turn, len(env.Turns))
	for i, dto := range env.Turns {
		t := relay.Turn{Role: relay.Role(dto.Role), Content: dto.Content, Timestamp: dto.Timestamp}
		if err := t.Validate(); err != nil {
			return relay.Session{}, fmt.Errorf("turn %d: %w", i, err)
		}
		turns[i] = t
	}
	return relay.Session{
		ID:           env.ID,
		SystemPrompt: env.SystemPrompt,
		Model:        env.Model,
		CreatedAt:    env.CreatedAt,
		UpdatedAt:    env.UpdatedAt,
		Usage:        relay.Usage{InputTokens: env.Usage.InputTokens, OutputTokens: env.Usage.OutputTokens},
		Turns:        turns,
	}, nil
}

// Save writes a Session to a JSON file, creating parent directories as needed.
func Save(path string, s relay.Session) error {
	data, err := MarshalSession(s)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp) // best-effort cleanup
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Load reads a Session from a JSON file.
func Load(path string) (relay.Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return relay.Session{}, fmt.Errorf("read file: %w", err)
	}
	return UnmarshalSession(data)
}
