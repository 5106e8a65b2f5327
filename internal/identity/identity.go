// Package identity issues the anonymous participant identifier: a UUIDv4
// generated once per local storage scope and reused forever after. It never
// fails: when the backing file cannot be read or written the provider hands
// out an ephemeral identity for the session instead.
package identity

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Provider resolves the local anonymous identity.
type Provider struct {
	path string

	mu     sync.Mutex
	cached string
}

// NewProvider creates a provider persisting the identity at path.
func NewProvider(path string) *Provider {
	return &Provider{path: path}
}

// GetOrCreate returns the persisted identity, creating and storing a fresh
// one on first use. Subsequent calls always return the same value. Storage
// failures degrade to an ephemeral identity that lives until the process
// exits; they are never surfaced to the caller.
func (p *Provider) GetOrCreate() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached != "" {
		return p.cached
	}

	if raw, err := os.ReadFile(p.path); err == nil {
		stored := strings.TrimSpace(string(raw))
		if _, err := uuid.Parse(stored); err == nil {
			p.cached = stored
			return stored
		}
		log.Warn().Str("path", p.path).Msg("stored identity is malformed, generating a new one")
	}

	id := uuid.NewString()
	p.cached = id

	if err := os.MkdirAll(filepath.Dir(p.path), 0o700); err != nil {
		log.Warn().Err(err).Msg("identity storage unavailable, using ephemeral identity")
		return id
	}
	if err := os.WriteFile(p.path, []byte(id+"\n"), 0o600); err != nil {
		log.Warn().Err(err).Msg("identity storage unavailable, using ephemeral identity")
	}
	return id
}

// Adopt persists a server-issued identity, replacing whatever was stored.
// Storage failures degrade the same way GetOrCreate does: the value is kept
// for the session only.
func (p *Provider) Adopt(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cached = id
	if err := os.MkdirAll(filepath.Dir(p.path), 0o700); err != nil {
		log.Warn().Err(err).Msg("identity storage unavailable, keeping identity in memory")
		return
	}
	if err := os.WriteFile(p.path, []byte(id+"\n"), 0o600); err != nil {
		log.Warn().Err(err).Msg("identity storage unavailable, keeping identity in memory")
	}
}

// Reset drops the persisted identity. The next GetOrCreate issues a new one.
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cached = ""
	_ = os.Remove(p.path)
}
