package config

import (
	"strings"

	gogit "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	format "github.com/go-git/go-git/v5/plumbing/format/config"
)

// Scope identifies where a configuration value came from.
type Scope string

const (
	// ScopeCLI marks an explicit command-line override.
	ScopeCLI Scope = "cli"

	// ScopeLocal is the repository config (.git/config).
	ScopeLocal Scope = "local"

	// ScopeGlobal is the user config (~/.gitconfig).
	ScopeGlobal Scope = "global"
)

// Store provides scoped access to key/value and multi-value settings.
// The git-backed implementation is GitStore; tests use MapStore.
type Store interface {
	// Get returns the last value set for key in the given scope, and
	// whether the key is defined there at all.
	Get(key string, scope Scope) (string, bool)

	// GetAll returns every value set for key in the given scope, in
	// insertion order, duplicates preserved.
	GetAll(key string, scope Scope) []string
}

// GitStore reads the local and global git config through go-git. Both
// scopes are loaded once at construction; an invocation never observes a
// mix of old and new values.
type GitStore struct {
	local  *format.Config
	global *format.Config
}

var _ Store = (*GitStore)(nil)

// NewGitStore loads the repository's local config and the user's global
// config. A missing global config file is not an error; it simply
// defines nothing.
func NewGitStore(repo *gogit.Repository) (*GitStore, error) {
	local, err := repo.Config()
	if err != nil {
		return nil, err
	}

	s := &GitStore{local: local.Raw}
	if global, err := gitconfig.LoadConfig(gitconfig.GlobalScope); err == nil {
		s.global = global.Raw
	}
	return s, nil
}

func (s *GitStore) raw(scope Scope) *format.Config {
	switch scope {
	case ScopeLocal:
		return s.local
	case ScopeGlobal:
		return s.global
	default:
		return nil
	}
}

// Get implements Store.
func (s *GitStore) Get(key string, scope Scope) (string, bool) {
	all := s.GetAll(key, scope)
	if len(all) == 0 {
		return "", false
	}
	// Git's reading rule for repeated single-value keys: last one wins.
	return all[len(all)-1], true
}

// GetAll implements Store.
func (s *GitStore) GetAll(key string, scope Scope) []string {
	cfg := s.raw(scope)
	if cfg == nil {
		return nil
	}

	section, subsection, option := splitKey(key)
	if section == "" || option == "" {
		return nil
	}

	sect := cfg.Section(section)
	if subsection != "" {
		return sect.Subsection(subsection).OptionAll(option)
	}
	return sect.OptionAll(option)
}

// splitKey splits "section.option" or "section.subsection.option" the way
// git does: the first dot ends the section, the last dot starts the
// option, anything between is the subsection.
func splitKey(key string) (section, subsection, option string) {
	first := strings.Index(key, ".")
	last := strings.LastIndex(key, ".")
	if first < 0 {
		return "", "", ""
	}
	section = key[:first]
	option = key[last+1:]
	if last > first {
		subsection = key[first+1 : last]
	}
	return section, subsection, option
}

// MapStore is an in-memory Store for tests.
type MapStore struct {
	Local  map[string][]string
	Global map[string][]string
}

var _ Store = (*MapStore)(nil)

func (s *MapStore) values(key string, scope Scope) []string {
	switch scope {
	case ScopeLocal:
		return s.Local[key]
	case ScopeGlobal:
		return s.Global[key]
	default:
		return nil
	}
}

// Get implements Store.
func (s *MapStore) Get(key string, scope Scope) (string, bool) {
	vals := s.values(key, scope)
	if len(vals) == 0 {
		return "", false
	}
	return vals[len(vals)-1], true
}

// GetAll implements Store.
func (s *MapStore) GetAll(key string, scope Scope) []string {
	return s.values(key, scope)
}
