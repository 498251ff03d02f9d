// Package registry loads the publisher configuration document and
// resolves lookups by exact, www-stripped or partial domain.
package registry

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"newsnexus/internal/domain/entity"
)

// Registry is the read-only publisher index built at startup.
type Registry struct {
	publishers []entity.Publisher
	byDomain   map[string]*entity.Publisher
	logger     *slog.Logger
}

// Load reads the publisher configuration from path. Invalid entries
// are skipped with a warning; an unreadable or malformed file is an
// error because the service is useless without publishers.
func Load(path string, logger *slog.Logger) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read publisher config: %w", err)
	}

	var raw []entity.Publisher
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse publisher config %s: %w", path, err)
	}

	r := &Registry{
		byDomain: make(map[string]*entity.Publisher),
		logger:   logger,
	}
	for _, pub := range raw {
		if err := pub.Validate(); err != nil {
			logger.Warn("skipping invalid publisher entry",
				slog.String("domain", pub.Domain),
				slog.String("error", err.Error()))
			continue
		}
		pub.Domain = strings.ToLower(pub.Domain)
		r.publishers = append(r.publishers, pub)
	}
	for i := range r.publishers {
		pub := &r.publishers[i]
		r.byDomain[pub.Domain] = pub
		// Index the www variation too so both spellings resolve.
		if stripped, ok := strings.CutPrefix(pub.Domain, "www."); ok {
			r.byDomain[stripped] = pub
		} else {
			r.byDomain["www."+pub.Domain] = pub
		}
	}

	logger.Info("loaded publisher configuration",
		slog.String("path", path),
		slog.Int("publishers", len(r.publishers)))
	return r, nil
}

// Find resolves a domain to its publisher. Lookup order: exact key,
// www-stripped key, then a scan supporting partial names such as
// "openai" resolving to "openai.com". Returns nil when nothing
// matches.
func (r *Registry) Find(domain string) *entity.Publisher {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if pub, ok := r.byDomain[domain]; ok {
		return pub
	}

	search := strings.TrimPrefix(domain, "www.")
	if pub, ok := r.byDomain[search]; ok {
		return pub
	}

	for i := range r.publishers {
		candidate := strings.TrimPrefix(r.publishers[i].Domain, "www.")
		if strings.Contains(candidate, search) || strings.HasPrefix(candidate, search+".") {
			return &r.publishers[i]
		}
	}
	return nil
}

// All returns every configured publisher.
func (r *Registry) All() []entity.Publisher {
	return r.publishers
}

// Domains lists configured domains, sorted, for health responses.
func (r *Registry) Domains() []string {
	out := make([]string, 0, len(r.publishers))
	for i := range r.publishers {
		out = append(out, r.publishers[i].Domain)
	}
	sort.Strings(out)
	return out
}

// TopPriority returns up to limit publishers having priority in
// [1, maxPriority], ordered by ascending priority then domain.
func (r *Registry) TopPriority(maxPriority, limit int) []entity.Publisher {
	var picked []entity.Publisher
	for i := range r.publishers {
		p := r.publishers[i].Priority
		if p >= 1 && p <= maxPriority {
			picked = append(picked, r.publishers[i])
		}
	}
	sort.Slice(picked, func(i, j int) bool {
		if picked[i].Priority != picked[j].Priority {
			return picked[i].Priority < picked[j].Priority
		}
		return picked[i].Domain < picked[j].Domain
	})
	if len(picked) > limit {
		picked = picked[:limit]
	}
	return picked
}
