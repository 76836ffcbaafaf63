// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package binindex

import "github.com/armon/go-radix"

// Typed wrapper around a radix tree keyed by package name, so the rest
// of the package never type-asserts. Only the operations the index
// needs are implemented.

type pkgTrie struct {
	t *radix.Tree
}

func newPkgTrie() pkgTrie {
	return pkgTrie{t: radix.New()}
}

// Insert adds or updates the id stored under name. Returns whether an
// entry was replaced.
func (t pkgTrie) Insert(name string, id int) bool {
	_, had := t.t.Insert(name, id)
	return had
}

// Get returns the id stored under name, if any.
func (t pkgTrie) Get(name string) (int, bool) {
	if v, has := t.t.Get(name); has {
		return v.(int), true
	}
	return 0, false
}

// WalkPrefix visits every entry whose name starts with prefix, in
// lexical order. fn returning true terminates the walk.
func (t pkgTrie) WalkPrefix(prefix string, fn func(name string, id int) bool) {
	t.t.WalkPrefix(prefix, func(s string, v interface{}) bool {
		return fn(s, v.(int))
	})
}

// Len returns the number of entries in the trie.
func (t pkgTrie) Len() int {
	return t.t.Len()
}
