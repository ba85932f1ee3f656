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

package handlers

import (
	"net/http"

	"github.com/trickstercache/trestle/pkg/config"
	"github.com/trickstercache/trestle/pkg/request"
	"github.com/trickstercache/trestle/pkg/response"
)

// ConfigHandleFunc returns a handler that renders the running
// configuration as YAML
func ConfigHandleFunc(conf *config.Config) Handler {
	return func(req *request.Request, resp *response.Response) {
		if conf == nil {
			InternalServerError(req, resp)
			return
		}
		resp.WithStatus(http.StatusOK).WithText(conf.String())
	}
}
