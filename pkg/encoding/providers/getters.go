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

package providers

import (
	"github.com/trickstercache/trestle/pkg/encoding/brotli"
	"github.com/trickstercache/trestle/pkg/encoding/deflate"
	"github.com/trickstercache/trestle/pkg/encoding/gzip"
	"github.com/trickstercache/trestle/pkg/encoding/snappy"
	"github.com/trickstercache/trestle/pkg/encoding/zstd"
)

// Codec encodes or decodes a whole byte slice
type Codec func([]byte) ([]byte, error)

// GetEncoder returns the encoder for the provided encoding name, along
// with the Content-Encoding value it produces
func GetEncoder(provider string) (Codec, string) {
	return SelectEncoder(ProviderID(provider))
}

// SelectEncoder returns the preferred encoder from the provided
// providers bitmap, along with its Content-Encoding value
func SelectEncoder(p Provider) (Codec, string) {
	if p&Zstandard == Zstandard {
		return zstd.Encode, ZstandardValue
	}
	if p&Brotli == Brotli {
		return brotli.Encode, BrotliValue
	}
	if p&GZip == GZip {
		return gzip.Encode, GZipValue
	}
	if p&Deflate == Deflate {
		return deflate.Encode, DeflateValue
	}
	if p&Snappy == Snappy {
		return snappy.Encode, SnappyValue
	}
	return nil, ""
}

// GetDecoder returns the decoder for the provided encoding name
func GetDecoder(provider string) Codec {
	return SelectDecoder(ProviderID(provider))
}

// SelectDecoder returns the decoder from the provided providers bitmap
func SelectDecoder(p Provider) Codec {
	if p&Zstandard == Zstandard {
		return zstd.Decode
	}
	if p&Brotli == Brotli {
		return brotli.Decode
	}
	if p&GZip == GZip {
		return gzip.Decode
	}
	if p&Deflate == Deflate {
		return deflate.Decode
	}
	if p&Snappy == Snappy {
		return snappy.Decode
	}
	return nil
}
