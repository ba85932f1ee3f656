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

package tls

import (
	"crypto/tls"
	"path/filepath"
	"testing"
)

func TestGetTestKeyAndCert(t *testing.T) {
	k, c, err := GetTestKeyAndCert(false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err = tls.X509KeyPair(c, k); err != nil {
		t.Error(err)
	}
}

func TestWriteTestKeyAndCert(t *testing.T) {
	dir := t.TempDir()
	keyPath := filepath.Join(dir, "test.key")
	certPath := filepath.Join(dir, "test.cert")
	if err := WriteTestKeyAndCert(true, keyPath, certPath); err != nil {
		t.Fatal(err)
	}
	if _, err := tls.LoadX509KeyPair(certPath, keyPath); err != nil {
		t.Error(err)
	}
}
