// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package binindex

import (
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// The on-disk shape of a package list (repository binary index or
// installed list) is one YAML mapping from package name to entry:
//
//	pkg-a:
//	    version: 1.0.0
//	    source: pkg-a-src
//	    sha256: <64 hex>
//	    filename: pkg-a_1.0.0.mpk
//	    depends: {pkg-b: [0.0.1, any]}
//	    sysdepends: [libfoo1]
//
// A repository may list several versions of one name, which shows up as
// a duplicate mapping key; entry order matters (it is the declared
// dependency order). Both rule out decoding into a Go map, so the
// documents are walked as yaml.Node trees.

// ParsePkgList decodes a package-list document into package records
// tagged with repoIndex. The records are not registered anywhere; feed
// them to AddPkg.
func ParsePkgList(data []byte, repoIndex int) ([]*Pkg, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "malformed package list")
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, errors.New("malformed package list: top level is not a mapping")
	}

	var pkgs []*Pkg
	for i := 0; i+1 < len(root.Content); i += 2 {
		name := root.Content[i].Value
		pkg, err := decodePkgEntry(name, root.Content[i+1], repoIndex)
		if err != nil {
			return nil, errors.Wrapf(err, "package %s", name)
		}
		pkgs = append(pkgs, pkg)
	}
	return pkgs, nil
}

func decodePkgEntry(name string, node *yaml.Node, repoIndex int) (*Pkg, error) {
	if node.Kind != yaml.MappingNode {
		return nil, errors.New("entry is not a mapping")
	}

	pkg := &Pkg{Name: name, RepoIndex: repoIndex}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		val := node.Content[i+1]

		switch key {
		case "version":
			pkg.Version = val.Value
		case "source":
			pkg.Source = val.Value
		case "sha256", "sumsha256sums":
			pkg.SHA256 = val.Value
		case "filename":
			pkg.Filename = val.Value
		case "depends":
			deps, err := decodeDepends(val)
			if err != nil {
				return nil, err
			}
			pkg.Deps = deps
		case "sysdepends":
			if err := val.Decode(&pkg.SysDeps); err != nil {
				return nil, errors.Wrap(err, "sysdepends")
			}
		default:
			// Unknown fields are ignored, as everywhere else in the
			// configuration surface.
		}
	}

	if pkg.Version == "" {
		return nil, errors.New("entry has no version")
	}
	return pkg, nil
}

// decodeDepends reads a depends mapping in declaration order. Each
// value is either a [min, max] sequence or a single scalar meaning an
// exact version.
func decodeDepends(node *yaml.Node) ([]Dependency, error) {
	if node.Kind != yaml.MappingNode {
		return nil, errors.New("depends is not a mapping")
	}

	var deps []Dependency
	for i := 0; i+1 < len(node.Content); i += 2 {
		dep := Dependency{Name: node.Content[i].Value}
		val := node.Content[i+1]

		switch val.Kind {
		case yaml.ScalarNode:
			dep.MinVersion = val.Value
			dep.MaxVersion = val.Value
		case yaml.SequenceNode:
			if len(val.Content) != 2 {
				return nil, errors.Errorf("dependency %s: version range must have two bounds", dep.Name)
			}
			dep.MinVersion = val.Content[0].Value
			dep.MaxVersion = val.Content[1].Value
		default:
			return nil, errors.Errorf("dependency %s: unexpected version constraint", dep.Name)
		}
		deps = append(deps, dep)
	}
	return deps, nil
}
