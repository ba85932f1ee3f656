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

// Package handlers defines the handler function type and the stock
// handlers the runtime installs on its own behalf.
package handlers

import (
	"net/http"

	"github.com/trickstercache/trestle/pkg/request"
	"github.com/trickstercache/trestle/pkg/response"
)

// Handler is the function signature registered against routes. The
// handler mutates resp in place; the runtime serializes it after the
// handler returns.
type Handler func(req *request.Request, resp *response.Response)

// NotFound writes a 404 response
func NotFound(req *request.Request, resp *response.Response) {
	resp.WithStatus(http.StatusNotFound).WithText("404 Not Found\n")
}

// Forbidden writes a 403 response
func Forbidden(req *request.Request, resp *response.Response) {
	resp.WithStatus(http.StatusForbidden).WithText("403 Forbidden\n")
}

// InternalServerError writes a 500 response
func InternalServerError(req *request.Request, resp *response.Response) {
	resp.WithStatus(http.StatusInternalServerError).
		WithText("500 Internal Server Error\n")
}
