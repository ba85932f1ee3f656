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

package sets

import "testing"

func TestStringSet(t *testing.T) {
	s := New([]string{"a", "b"})
	if !s.Contains("a") || !s.Contains("b") {
		t.Error("expected set to contain a and b")
	}
	if s.Contains("c") {
		t.Error("expected set to not contain c")
	}
	s.Add("c")
	if !s.Contains("c") {
		t.Error("expected set to contain c")
	}
	s.Remove("a")
	if s.Contains("a") {
		t.Error("expected set to not contain a")
	}
	if len(s.Keys()) != 2 {
		t.Errorf("expected 2 keys, got %d", len(s.Keys()))
	}
}

func TestClone(t *testing.T) {
	s := New([]int{1, 2, 3})
	c := s.Clone()
	c.Remove(2)
	if !s.Contains(2) {
		t.Error("expected original set to be unchanged")
	}
	if c.Contains(2) {
		t.Error("expected clone to not contain 2")
	}
}

func TestNewStringSet(t *testing.T) {
	s := NewStringSet()
	if len(s) != 0 {
		t.Errorf("expected empty set, got %d elements", len(s))
	}
	s.Add("x")
	if !s.Contains("x") {
		t.Error("expected set to contain x")
	}
}
