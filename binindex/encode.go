// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package binindex

import (
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// EncodePkgList renders packages in the package-list document shape
// understood by ParsePkgList. Used to persist the installed list; the
// entries keep the order in which they are passed.
func EncodePkgList(pkgs []*Pkg) ([]byte, error) {
	root := yaml.Node{Kind: yaml.MappingNode}

	for _, p := range pkgs {
		entry := yaml.Node{Kind: yaml.MappingNode}
		addScalarPair(&entry, "version", p.Version)
		addScalarPair(&entry, "source", p.Source)
		addScalarPair(&entry, "sha256", p.SHA256)
		addScalarPair(&entry, "filename", p.Filename)

		if len(p.SysDeps) > 0 {
			sysdeps := yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
			for _, s := range p.SysDeps {
				sysdeps.Content = append(sysdeps.Content, scalar(s))
			}
			entry.Content = append(entry.Content, scalar("sysdepends"), &sysdeps)
		}

		if len(p.Deps) > 0 {
			deps := yaml.Node{Kind: yaml.MappingNode}
			for _, d := range p.Deps {
				rng := yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
				rng.Content = append(rng.Content, scalar(d.MinVersion), scalar(d.MaxVersion))
				deps.Content = append(deps.Content, scalar(d.Name), &rng)
			}
			entry.Content = append(entry.Content, scalar("depends"), &deps)
		}

		root.Content = append(root.Content, scalar(p.Name), &entry)
	}

	if len(root.Content) == 0 {
		return []byte("{}\n"), nil
	}

	out, err := yaml.Marshal(&root)
	return out, errors.Wrap(err, "encoding package list")
}

func scalar(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: v}
}

func addScalarPair(m *yaml.Node, key, val string) {
	m.Content = append(m.Content, scalar(key), scalar(val))
}
