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

// Package headers provides the HTTP header names and values used by trestle
package headers

const (
	// NameConnection represents the HTTP Header Name of "Connection"
	NameConnection = "Connection"
	// NameContentLength represents the HTTP Header Name of "Content-Length"
	NameContentLength = "Content-Length"
	// NameContentType represents the HTTP Header Name of "Content-Type"
	NameContentType = "Content-Type"
	// NameContentEncoding represents the HTTP Header Name of "Content-Encoding"
	NameContentEncoding = "Content-Encoding"
	// NameAcceptEncoding represents the HTTP Header Name of "Accept-Encoding"
	NameAcceptEncoding = "Accept-Encoding"
	// NameTransferEncoding represents the HTTP Header Name of "Transfer-Encoding"
	NameTransferEncoding = "Transfer-Encoding"
	// NameServer represents the HTTP Header Name of "Server"
	NameServer = "Server"
	// NameDate represents the HTTP Header Name of "Date"
	NameDate = "Date"
	// NameHost represents the HTTP Header Name of "Host"
	NameHost = "Host"
	// NameRetryAfter represents the HTTP Header Name of "Retry-After"
	NameRetryAfter = "Retry-After"
)

const (
	// ValueClose represents the HTTP Header Value of "close"
	ValueClose = "close"
	// ValueKeepAlive represents the HTTP Header Value of "keep-alive"
	ValueKeepAlive = "keep-alive"
	// ValueIdentity represents the HTTP Header Value of "identity"
	ValueIdentity = "identity"
	// ValueTextPlain represents the HTTP Header Value of "text/plain; charset=utf-8"
	ValueTextPlain = "text/plain; charset=utf-8"
	// ValueApplicationJSON represents the HTTP Header Value of "application/json"
	ValueApplicationJSON = "application/json"
	// ValueApplicationOctetStream represents the HTTP Header Value of "application/octet-stream"
	ValueApplicationOctetStream = "application/octet-stream"
)
