package auth

import (
	"sort"

	"venuely/api/pkg/config"
)

// KeySet is the set of accepted API keys.
//
// It is built once from configuration and never modified afterwards, so it
// is safe for concurrent use without locking.
type KeySet struct {
	keys map[string]*KeyInfo
}

// NewKeySet creates a key set from configured keys. Entries with an empty
// key are skipped; an empty key can never be presented.
func NewKeySet(keys []config.APIKeyConfig) *KeySet {
	keyMap := make(map[string]*KeyInfo, len(keys))
	for _, k := range keys {
		if k.Key == "" {
			continue
		}
		keyMap[k.Key] = &KeyInfo{Name: k.Name, Key: k.Key}
	}

	return &KeySet{keys: keyMap}
}

// Validate checks if the given API key is accepted and returns its info.
//
// This is a plain map lookup, not a constant-time comparison; keys are
// shared secrets for operator endpoints, not user credentials.
func (s *KeySet) Validate(key string) (*KeyInfo, error) {
	if key == "" {
		return nil, ErrMissingAPIKey
	}

	info, ok := s.keys[key]
	if !ok {
		return nil, ErrInvalidAPIKey
	}

	return info, nil
}

// List returns all accepted keys ordered by name.
func (s *KeySet) List() []KeyInfo {
	keys := make([]KeyInfo, 0, len(s.keys))
	for _, info := range s.keys {
		keys = append(keys, *info)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Name < keys[j].Name })
	return keys
}

// Len returns the number of accepted keys.
func (s *KeySet) Len() int {
	return len(s.keys)
}
