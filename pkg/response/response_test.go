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
	"bytes"
	"strings"
	"testing"
)

func TestWriteToDefaults(t *testing.T) {
	var buf bytes.Buffer
	n, err := New().WithText("hello").WriteTo(&buf, true)
	if err != nil {
		t.Fatal(err)
	}
	if n != 5 {
		t.Errorf("expected 5 body bytes got %d", n)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "HTTP/1.1 200 OK\r\n") {
		t.Errorf("unexpected status line in %s", out)
	}
	for _, want := range []string{
		"Content-Length: 5\r\n",
		"Connection: keep-alive\r\n",
		"Server: trestle\r\n",
		"Content-Type: text/plain; charset=utf-8\r\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in response:\n%s", want, out)
		}
	}
	if !strings.HasSuffix(out, "\r\n\r\nhello") {
		t.Errorf("expected body after blank line, got %s", out)
	}
}

func TestWriteToProto(t *testing.T) {
	var buf bytes.Buffer
	r := New().WithText("x")
	r.Proto = "HTTP/1.0"
	if _, err := r.WriteTo(&buf, false); err != nil {
		t.Fatal(err)
	}
	// the request's protocol version is echoed on the status line
	if !strings.HasPrefix(buf.String(), "HTTP/1.0 200 OK\r\n") {
		t.Errorf("unexpected status line in %s", buf.String())
	}
}

func TestWriteToClose(t *testing.T) {
	var buf bytes.Buffer
	if _, err := New().WithStatus(404).WithText("not found").WriteTo(&buf, false); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "HTTP/1.1 404 Not Found\r\n") {
		t.Errorf("unexpected status line in %s", out)
	}
	if !strings.Contains(out, "Connection: close\r\n") {
		t.Errorf("expected close connection header in %s", out)
	}
}

func TestWriteToSuppressedBody(t *testing.T) {
	var buf bytes.Buffer
	r := New().WithText("hello")
	r.SuppressBody = true
	n, err := r.WriteTo(&buf, true)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("expected 0 body bytes got %d", n)
	}
	out := buf.String()
	// HEAD keeps the entity length while eliding the body
	if !strings.Contains(out, "Content-Length: 5\r\n") {
		t.Errorf("expected content length 5 in %s", out)
	}
	if !strings.HasSuffix(out, "\r\n\r\n") {
		t.Errorf("expected no body, got %s", out)
	}
}

func TestWithJSON(t *testing.T) {
	var buf bytes.Buffer
	if _, err := New().WithJSON(map[string]int{"x": 1}).WriteTo(&buf, true); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "Content-Type: application/json\r\n") {
		t.Errorf("expected json content type in %s", out)
	}
	if !strings.HasSuffix(out, `{"x":1}`) {
		t.Errorf("expected json body in %s", out)
	}
}

func TestReservedHeadersNotDuplicated(t *testing.T) {
	var buf bytes.Buffer
	r := New().WithText("x").WithHeader("Content-Length", "9999")
	if _, err := r.WriteTo(&buf, true); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "Content-Length:") != 1 {
		t.Errorf("expected exactly one content-length header:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "Content-Length: 1\r\n") {
		t.Errorf("serializer value should win:\n%s", buf.String())
	}
}

func TestSetDefaultHeader(t *testing.T) {
	r := New().WithHeader("X-A", "set")
	r.SetDefaultHeader("X-A", "default")
	r.SetDefaultHeader("X-B", "default")
	if r.Header("X-A") != "set" {
		t.Errorf("default must not override, got %s", r.Header("X-A"))
	}
	if r.Header("X-B") != "default" {
		t.Errorf("expected default, got %s", r.Header("X-B"))
	}
}
