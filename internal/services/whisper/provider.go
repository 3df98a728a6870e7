package whisper

import (
	"context"
	"os/exec"
	"sync"

	"clipscribe/internal/config"
	"clipscribe/internal/services"
)

// Profile selects which transcription accuracy tier a service targets.
type Profile string

const (
	// ProfileFast backs the primary and chunked passes.
	ProfileFast Profile = "fast"
	// ProfileAccurate backs per-segment retry escalation.
	ProfileAccurate Profile = "accurate"
)

// Provider lazily constructs whisper services per profile and releases them
// when the pipeline run completes. Heavy model loading happens inside the
// CLI process, so release here means dropping the per-run handles.
type Provider struct {
	mu        sync.Mutex
	cfg       *config.Config
	lookPath  func(string) (string, error)
	instances map[Profile]*Service
	verified  bool
}

// NewProvider creates a Provider bound to the given configuration.
func NewProvider(cfg *config.Config) *Provider {
	return &Provider{
		cfg:       cfg,
		lookPath:  exec.LookPath,
		instances: make(map[Profile]*Service),
	}
}

// WithLookPath sets a custom binary resolver (for testing).
func (p *Provider) WithLookPath(fn func(string) (string, error)) {
	p.lookPath = fn
}

// Engine returns the service for a profile, constructing it on first use.
// A missing uvx binary is the one fatal condition: without it no model of
// any tier can be loaded.
func (p *Provider) Engine(_ context.Context, profile Profile) (*Service, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.verified {
		if _, err := p.lookPath(p.cfg.UVXBinary()); err != nil {
			return nil, services.Wrap(services.ErrModelUnavailable,
				"whisper", "resolve runner", "uvx binary not found", err)
		}
		p.verified = true
	}

	if svc, ok := p.instances[profile]; ok {
		return svc, nil
	}

	svc := NewService(p.profileConfig(profile), p.cfg.UVXBinary())
	p.instances[profile] = svc
	return svc, nil
}

// Release drops all per-run service handles. Safe to call multiple times.
func (p *Provider) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.instances = make(map[Profile]*Service)
	p.verified = false
}

func (p *Provider) profileConfig(profile Profile) Config {
	t := p.cfg.Transcription
	switch profile {
	case ProfileAccurate:
		return Config{
			Model:         t.RetryModel,
			BeamSize:      t.RetryBeamSize,
			CUDAEnabled:   t.CUDAEnabled,
			VADFilter:     t.VADFilterEnabled,
			Deterministic: true,
		}
	default:
		return Config{
			Model:       t.Model,
			CUDAEnabled: t.CUDAEnabled,
			VADFilter:   t.VADFilterEnabled,
		}
	}
}
