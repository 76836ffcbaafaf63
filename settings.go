// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mmpack

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Repository is one configured package source. Its position in the
// repository list is the repo index recorded on every package it
// supplies.
type Repository struct {
	Name string
	URL  string
}

// Settings is the merged tool configuration. Recognized keys of the
// YAML configuration file are "repositories" (ordered sequence of
// short-name: url entries) and "default-prefix"; unknown keys are
// silently ignored.
type Settings struct {
	Repositories  []Repository
	DefaultPrefix string
}

// NewSettings returns settings with the built-in defaults applied.
func NewSettings() *Settings {
	return &Settings{DefaultPrefix: builtinDefaultPrefix()}
}

func builtinDefaultPrefix() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "mmpack-prefix")
	}
	return filepath.Join(home, ".local", "share", "mmpack-prefix")
}

// LoadFile reads a configuration file into s, on top of whatever s
// already holds: a "repositories" key replaces the repository list
// wholesale, a "default-prefix" key overwrites the default prefix.
//
// A missing file is not an error; an unreadable or malformed one is.
func (s *Settings) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "cannot open %s", path)
	}

	var doc struct {
		Repositories  repoList `yaml:"repositories"`
		DefaultPrefix *string  `yaml:"default-prefix"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return errors.Wrapf(err, "cannot parse %s", path)
	}

	if doc.Repositories != nil {
		s.Repositories = doc.Repositories
	}
	if doc.DefaultPrefix != nil {
		s.DefaultPrefix = *doc.DefaultPrefix
	}
	return nil
}

// repoList decodes the "repositories" value: a sequence of single-pair
// mappings whose order becomes the repo index.
type repoList []Repository

func (l *repoList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return errors.New("repositories must be a sequence")
	}

	var repos []Repository
	for _, item := range node.Content {
		if item.Kind != yaml.MappingNode || len(item.Content) != 2 {
			return errors.New("every repository url must have a short name")
		}
		repos = append(repos, Repository{
			Name: item.Content[0].Value,
			URL:  item.Content[1].Value,
		})
	}

	*l = repos
	return nil
}

// RepoURL returns the url of the repository at the given index.
func (s *Settings) RepoURL(index int) (string, error) {
	if index < 0 || index >= len(s.Repositories) {
		return "", errors.Errorf("no repository with index %d", index)
	}
	return s.Repositories[index].URL, nil
}

// UserConfigPath returns the location of the user configuration file.
func UserConfigPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "mmpack-config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "mmpack-config.yaml"
	}
	return filepath.Join(home, ".config", "mmpack-config.yaml")
}
