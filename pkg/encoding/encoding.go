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

// Package encoding applies negotiated content encodings to responses
package encoding

import (
	"github.com/trickstercache/trestle/pkg/encoding/providers"
	"github.com/trickstercache/trestle/pkg/headers"
	"github.com/trickstercache/trestle/pkg/response"
)

// EncodeResponse compresses the response body with the preferred
// encoding the client accepts, when the body is at least minBytes long
// and the handler has not already set a Content-Encoding. The encoded
// body replaces the original only when it is smaller.
func EncodeResponse(resp *response.Response, acceptEncoding string, minBytes int) {
	if resp == nil || len(resp.Body) == 0 || len(resp.Body) < minBytes {
		return
	}
	if resp.Header(headers.NameContentEncoding) != "" {
		return
	}
	enc, name := providers.SelectEncoder(providers.AcceptedProviders(acceptEncoding))
	if enc == nil {
		return
	}
	b, err := enc(resp.Body)
	if err != nil || len(b) >= len(resp.Body) {
		return
	}
	resp.Body = b
	resp.WithHeader(headers.NameContentEncoding, name)
}
