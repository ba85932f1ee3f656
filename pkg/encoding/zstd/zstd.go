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

// Package zstd provides zstandard capabilities for byte slices
package zstd

import (
	"github.com/klauspost/compress/zstd"
)

var commonDecoder *zstd.Decoder
var commonEncoder *zstd.Encoder

func init() {
	commonDecoder, _ = zstd.NewReader(nil)
	commonEncoder, _ = zstd.NewWriter(nil)
}

// Decode returns the decoded version of the encoded byte slice
func Decode(in []byte) ([]byte, error) {
	return commonDecoder.DecodeAll(in, nil)
}

// Encode returns the encoded version of the byte slice
func Encode(in []byte) ([]byte, error) {
	return commonEncoder.EncodeAll(in, nil), nil
}
