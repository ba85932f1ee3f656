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

package response

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/trickstercache/trestle/pkg/appinfo"
	"github.com/trickstercache/trestle/pkg/headers"
)

// WriteTo serializes the response onto w. keepAlive controls the
// Connection header; the Date, Server, Content-Length and Connection
// headers are always emitted by the serializer and override any
// handler-set values. The Server header value comes from
// appinfo.Server. Returns the number of body bytes written.
func (r *Response) WriteTo(w io.Writer, keepAlive bool) (int, error) {
	code := r.StatusCode
	if code == 0 {
		code = http.StatusOK
	}
	text := http.StatusText(code)
	if text == "" {
		text = "Status"
	}

	proto := r.Proto
	if proto == "" {
		proto = "HTTP/1.1"
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s %d %s\r\n", proto, code, text)
	fmt.Fprintf(bw, "%s: %s\r\n", headers.NameDate,
		time.Now().UTC().Format(http.TimeFormat))
	fmt.Fprintf(bw, "%s: %s\r\n", headers.NameServer, appinfo.Server)
	fmt.Fprintf(bw, "%s: %d\r\n", headers.NameContentLength, len(r.Body))
	if keepAlive {
		fmt.Fprintf(bw, "%s: %s\r\n", headers.NameConnection, headers.ValueKeepAlive)
	} else {
		fmt.Fprintf(bw, "%s: %s\r\n", headers.NameConnection, headers.ValueClose)
	}

	// deterministic header order keeps the wire output stable for tests
	names := make([]string, 0, len(r.Headers))
	for name := range r.Headers {
		if isReservedHeader(name) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(bw, "%s: %s\r\n", name, r.Headers[name])
	}
	bw.WriteString("\r\n")

	var n int
	if !r.SuppressBody && len(r.Body) > 0 {
		var err error
		if n, err = bw.Write(r.Body); err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}

func isReservedHeader(name string) bool {
	switch http.CanonicalHeaderKey(name) {
	case headers.NameDate, headers.NameServer, headers.NameContentLength,
		headers.NameConnection:
		return true
	}
	return false
}
