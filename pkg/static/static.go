/*
 * Copyright 2024 The Trestle Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package static serves files below a configured root directory for
// request paths no route claims.
package static

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/trickstercache/trestle/pkg/config"
	"github.com/trickstercache/trestle/pkg/errors"
	"github.com/trickstercache/trestle/pkg/headers"
	"github.com/trickstercache/trestle/pkg/util/sets"
)

// IndexFile is served when the resolved path is a directory
const IndexFile = "index.html"

// Resolver maps request paths to files under a root directory
type Resolver struct {
	root  string
	allow sets.Set[string]
	deny  sets.Set[string]
}

// File is a resolved static file ready to serve
type File struct {
	Path        string
	ContentType string
	Body        []byte
}

// NewResolver returns a Resolver for the provided static configuration,
// or nil when no root is configured
func NewResolver(conf *config.StaticConfig) (*Resolver, error) {
	if conf == nil || conf.Root == "" {
		return nil, nil
	}
	root, err := filepath.Abs(conf.Root)
	if err != nil {
		return nil, err
	}
	fi, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: static root %s", errors.ErrInvalidOptions, conf.Root)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("%w: static root %s is not a directory",
			errors.ErrInvalidOptions, conf.Root)
	}
	r := &Resolver{root: root}
	if len(conf.AllowExtensions) > 0 {
		r.allow = extensionSet(conf.AllowExtensions)
	}
	if len(conf.DenyExtensions) > 0 {
		r.deny = extensionSet(conf.DenyExtensions)
	}
	return r, nil
}

func extensionSet(exts []string) sets.Set[string] {
	s := make(sets.Set[string], len(exts))
	for _, e := range exts {
		e = strings.ToLower(e)
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		s.Add(e)
	}
	return s
}

// Root returns the absolute static root directory
func (r *Resolver) Root() string {
	return r.root
}

// Resolve returns the file for the provided request path. It fails with
// errors.ErrForbidden when the path escapes the root or its extension is
// not permitted, and errors.ErrNotFound when no file exists there.
func (r *Resolver) Resolve(reqPath string) (*File, error) {
	if r == nil {
		return nil, errors.ErrNotFound
	}
	full := filepath.Join(r.root, filepath.FromSlash(reqPath))
	// Join cleans the path, so any remaining escape is a prefix breach
	if full != r.root && !strings.HasPrefix(full, r.root+string(filepath.Separator)) {
		return nil, errors.ErrForbidden
	}
	fi, err := os.Stat(full)
	if err != nil {
		return nil, errors.ErrNotFound
	}
	if fi.IsDir() {
		full = filepath.Join(full, IndexFile)
		if fi, err = os.Stat(full); err != nil || fi.IsDir() {
			return nil, errors.ErrNotFound
		}
	}
	ext := strings.ToLower(filepath.Ext(full))
	if r.deny != nil && r.deny.Contains(ext) {
		return nil, errors.ErrForbidden
	}
	if r.allow != nil && !r.allow.Contains(ext) {
		return nil, errors.ErrForbidden
	}
	b, err := os.ReadFile(full)
	if err != nil {
		return nil, errors.ErrNotFound
	}
	ct := mime.TypeByExtension(ext)
	if ct == "" {
		ct = headers.ValueApplicationOctetStream
	}
	return &File{Path: full, ContentType: ct, Body: b}, nil
}
