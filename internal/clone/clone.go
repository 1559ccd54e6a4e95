//
// Copyright (C) 2026 The agentbench Authors. All rights reserved.
//
// agentbench is licensed under the Apache License Version 2.0.
//
//

// Package clone provides a generic deep copy for record types.
package clone

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// Clone deep-copies src through its gob encoding. Stored records are
// cloned on the way in and out of managers so callers can never mutate
// shared state.
func Clone[T any](src *T) (*T, error) {
	if src == nil {
		return nil, fmt.Errorf("nil input")
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(src); err != nil {
		return nil, err
	}
	var dst T
	if err := gob.NewDecoder(&buf).Decode(&dst); err != nil {
		return nil, err
	}
	return &dst, nil
}
