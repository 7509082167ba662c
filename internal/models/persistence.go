package models

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

const DefaultSaveDir = ".strategies"

// ErrNotFound is returned when a named strategy is not in the library.
var ErrNotFound = errors.New("strategy not found")

var validName = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Library stores strategy graphs as one YAML file per strategy.
type Library struct {
	Dir string
}

func NewLibrary(dir string) *Library {
	if dir == "" {
		dir = DefaultSaveDir
	}
	return &Library{Dir: dir}
}

// ValidName reports whether name can be used as a library key.
func ValidName(name string) bool {
	return validName.MatchString(name)
}

func (l *Library) path(name string) string {
	return filepath.Join(l.Dir, name+".yaml")
}

// Save writes s to the library, assigning an ID on first save.
func (l *Library) Save(s *SavedStrategy) error {
	if !ValidName(s.Name) {
		return fmt.Errorf("invalid strategy name %q", s.Name)
	}
	if s.ID == "" {
		if existing, err := l.Load(s.Name); err == nil {
			s.ID = existing.ID
		} else {
			s.ID = uuid.NewString()
		}
	}
	if err := os.MkdirAll(l.Dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(l.path(s.Name), data, 0644)
}

func (l *Library) Load(name string) (*SavedStrategy, error) {
	if !ValidName(name) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	data, err := os.ReadFile(l.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, err
	}

	var s SavedStrategy
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	if s.Name == "" {
		s.Name = name
	}
	return &s, nil
}

// List returns the names of all saved strategies in sorted order.
func (l *Library) List() ([]string, error) {
	entries, err := os.ReadDir(l.Dir)
	if errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}

	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".yaml")
		if ValidName(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// ReadGraphFile decodes a standalone graph file. Both YAML and JSON parse, JSON being a YAML subset.
func ReadGraphFile(path string) (*StrategyGraph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var g StrategyGraph
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return &g, nil
}
