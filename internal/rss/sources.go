package rss

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadSources reads the feed list from a YAML file:
//
//   - name: Nature
//     url: http://feeds.nature.com/nature/rss/current
//
// A name listed twice keeps its first position and takes the last URL.
func LoadSources(path string) ([]Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sources file: %w", err)
	}
	defer f.Close()

	var raw []Source
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return []Source{}, nil
		}
		return nil, fmt.Errorf("parse sources file %s: %w", path, err)
	}

	sources := make([]Source, 0, len(raw))
	index := make(map[string]int, len(raw))
	for i, s := range raw {
		if s.Name == "" || s.URL == "" {
			return nil, fmt.Errorf("sources file %s: entry %d needs both name and url", path, i+1)
		}
		if pos, ok := index[s.Name]; ok {
			sources[pos].URL = s.URL
			continue
		}
		index[s.Name] = len(sources)
		sources = append(sources, s)
	}
	return sources, nil
}
