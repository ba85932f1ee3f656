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

package request

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/trickstercache/trestle/pkg/errors"
	"github.com/trickstercache/trestle/pkg/headers"
)

const (
	// DefaultReadBufferSize is the size of the buffered reader over the connection
	DefaultReadBufferSize = 4096
	// MaxHeaderCount caps the number of header lines accepted per request
	MaxHeaderCount = 256
)

// Framer reads raw bytes from a connection and splits them into request
// line, headers and body, subject to a total byte budget. A Framer is bound
// to one connection and may frame multiple requests from it (keep-alive).
type Framer struct {
	br         *bufio.Reader
	limit      int64
	remoteAddr string
}

// NewFramer returns a Framer over the provided reader with read limit in
// bytes; limit 0 means unbounded
func NewFramer(rd io.Reader, limit int64, remoteAddr string) *Framer {
	return &Framer{
		br:         bufio.NewReaderSize(rd, DefaultReadBufferSize),
		limit:      limit,
		remoteAddr: remoteAddr,
	}
}

// SetLimit replaces the read limit applied to subsequent requests, so a
// keep-alive connection picks up a reloaded limit between requests
func (f *Framer) SetLimit(limit int64) {
	f.limit = limit
}

// WaitReady blocks until the next request's first byte is available,
// without consuming it. It returns io.EOF on a clean close, and maps
// deadline errors the same way ReadRequest does. Callers can use it to
// observe the moment a request starts arriving before framing it.
func (f *Framer) WaitReady() error {
	if _, err := f.br.Peek(1); err != nil {
		if err == io.EOF {
			return io.EOF
		}
		return mapReadError(err)
	}
	return nil
}

// ReadRequest reads one complete request from the connection, or fails with
// one of: io.EOF (clean close before any bytes), errors.ErrPayloadTooLarge,
// errors.ErrRequestTimeout, errors.ErrUnsupportedEncoding, or
// errors.ErrMalformedRequest. No partial Request is ever returned.
func (f *Framer) ReadRequest() (*Request, error) {
	var total int64

	line, err := f.readLine(&total)
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, mapReadError(err)
	}
	if line == "" {
		// bare CRLF before the request line is a clean close from our
		// point of view
		return nil, io.EOF
	}

	method, target, proto, err := parseRequestLine(line)
	if err != nil {
		return nil, err
	}

	req := &Request{
		ID:         uuid.NewString(),
		Method:     method,
		Proto:      proto,
		Headers:    make(map[string]string, 8),
		RemoteAddr: f.remoteAddr,
	}

	req.Path, req.Query = splitTarget(target)

	for i := 0; ; i++ {
		if i > MaxHeaderCount {
			return nil, fmt.Errorf("%w: too many headers", errors.ErrMalformedRequest)
		}
		line, err = f.readLine(&total)
		if err != nil {
			return nil, mapReadError(err)
		}
		if line == "" {
			break // end of headers
		}
		ci := strings.Index(line, ":")
		if ci <= 0 {
			return nil, fmt.Errorf("%w: bad header line", errors.ErrMalformedRequest)
		}
		name := strings.ToLower(strings.TrimSpace(line[:ci]))
		// last value wins for repeated headers
		req.Headers[name] = strings.TrimSpace(line[ci+1:])
	}

	if te, ok := req.Headers[strings.ToLower(headers.NameTransferEncoding)]; ok &&
		!strings.EqualFold(te, headers.ValueIdentity) {
		return nil, errors.ErrUnsupportedEncoding
	}

	if cl, ok := req.Headers[strings.ToLower(headers.NameContentLength)]; ok {
		n, err := strconv.ParseInt(cl, 10, 64)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: bad content length", errors.ErrMalformedRequest)
		}
		// reject before reading a body that would breach the budget
		if f.limit > 0 && total+n > f.limit {
			return nil, errors.ErrPayloadTooLarge
		}
		if n > 0 {
			req.Body = make([]byte, n)
			if _, err = io.ReadFull(f.br, req.Body); err != nil {
				return nil, mapReadError(err)
			}
		}
	}

	req.KeepAlive = keepAlive(req)
	return req, nil
}

func (f *Framer) readLine(total *int64) (string, error) {
	line, err := f.br.ReadString('\n')
	*total += int64(len(line))
	if err != nil {
		if err == io.EOF && line != "" {
			return "", io.ErrUnexpectedEOF
		}
		return "", err
	}
	if f.limit > 0 && *total > f.limit {
		return "", errors.ErrPayloadTooLarge
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func parseRequestLine(line string) (method, target, proto string, err error) {
	parts := strings.Split(line, " ")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" ||
		!strings.HasPrefix(parts[2], "HTTP/") {
		return "", "", "", fmt.Errorf("%w: bad request line", errors.ErrMalformedRequest)
	}
	return strings.ToUpper(parts[0]), parts[1], parts[2], nil
}

func splitTarget(target string) (string, url.Values) {
	path, rawQuery, found := strings.Cut(target, "?")
	if !found || rawQuery == "" {
		return path, nil
	}
	q, err := url.ParseQuery(rawQuery)
	if err != nil {
		return path, nil
	}
	return path, q
}

func keepAlive(req *Request) bool {
	conn, _ := req.Header(headers.NameConnection)
	conn = strings.ToLower(conn)
	switch req.Proto {
	case "HTTP/1.1":
		return conn != headers.ValueClose
	case "HTTP/1.0":
		return conn == headers.ValueKeepAlive
	}
	return false
}

func mapReadError(err error) error {
	if err == nil {
		return nil
	}
	if err == errors.ErrPayloadTooLarge {
		return err
	}
	if ne, ok := err.(net.Error); ok && ne.Timeout() {
		return errors.ErrRequestTimeout
	}
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return fmt.Errorf("%w: truncated request", errors.ErrMalformedRequest)
	}
	return fmt.Errorf("%w: %v", errors.ErrMalformedRequest, err)
}
