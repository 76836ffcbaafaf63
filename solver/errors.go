// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"bytes"
	"fmt"
)

// UnsatisfiableError reports that the solver exhausted every decision
// alternative without finding a plan meeting all constraints.
type UnsatisfiableError struct {
	Requests []Request
}

func (e *UnsatisfiableError) Error() string {
	var buf bytes.Buffer
	buf.WriteString("cannot satisfy constraints for:")
	for _, req := range e.Requests {
		if req.Version == "" {
			fmt.Fprintf(&buf, " %s", req.Name)
		} else {
			fmt.Fprintf(&buf, " %s=%s", req.Name, req.Version)
		}
	}
	return buf.String()
}
