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

// Package providers enumerates the supported content encodings and
// negotiates them against Accept-Encoding headers.
package providers

import (
	"strconv"
	"strings"
)

const (
	Zstandard Provider = 1 << iota
	Brotli                 // 2
	GZip                   // 4
	Deflate                // 8
	Identity  Provider = 0 // no encoding

	// browsers don't currently support snappy, so it is isolated to
	// ensure a full bifurcation of web vs. general encoders
	Snappy Provider = 128

	maxWebProvider = Deflate // update whenever another web-compatible provider is added

	// for use in headers
	ZstandardValue = "zstd"
	BrotliValue    = "br"
	GZipValue      = "gzip"
	DeflateValue   = "deflate"
	SnappyValue    = "snappy"
	// might be used in configs
	ZstandardAltValue = "zstandard"
	BrotliAltValue    = "brotli"
)

type (
	Provider      byte
	Lookup        map[string]Provider
	ReverseLookup map[Provider]string
)

// preference order when a client accepts more than one encoding
var providerVals = []Provider{Zstandard, Brotli, GZip, Deflate, Snappy}

var providerValLookup = ReverseLookup{
	Zstandard: ZstandardValue,
	Brotli:    BrotliValue,
	GZip:      GZipValue,
	Deflate:   DeflateValue,
	Snappy:    SnappyValue,
}

var (
	providers      []string
	providerLookup Lookup
)

func init() {
	providers = make([]string, 0, len(providerVals))
	providerLookup = make(Lookup)
	for _, p := range providerVals {
		s := providerValLookup[p]
		providers = append(providers, s)
		providerLookup[s] = p
	}
	providerLookup[BrotliAltValue] = Brotli
	providerLookup[ZstandardAltValue] = Zstandard
}

func (p Provider) String() string {
	if v, ok := providerValLookup[p]; ok {
		return v
	}
	return strconv.Itoa(int(p))
}

// Providers returns the list of supported encoding names
func Providers() []string {
	out := make([]string, len(providers))
	copy(out, providers)
	return out
}

// ProviderID returns the bitmap value of the provided encoding name
func ProviderID(providerName string) Provider {
	if b, ok := providerLookup[providerName]; ok {
		return b
	}
	return 0
}

// AcceptedProviders converts an Accept-Encoding header value into a
// bitmap of supported providers. Quality values are tolerated but not
// weighed; a provider listed with q=0 is excluded.
func AcceptedProviders(acceptEncoding string) Provider {
	var b Provider
	if acceptEncoding == "" {
		return b
	}
	for _, enc := range strings.Split(acceptEncoding, ",") {
		enc = strings.TrimSpace(strings.ToLower(enc))
		var q string
		if i := strings.Index(enc, ";"); i >= 0 {
			enc, q = strings.TrimSpace(enc[:i]), strings.TrimSpace(enc[i+1:])
		}
		if strings.HasPrefix(q, "q=") {
			if f, err := strconv.ParseFloat(q[2:], 64); err == nil && f == 0 {
				continue
			}
		}
		if v, ok := providerLookup[enc]; ok {
			b |= v
		}
	}
	return b
}
