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

// Package appinfo holds application build and identity information
package appinfo

// Name is the name of the Application
var Name = "trestle"

// Version holds the version of the Application
var Version string

// BuildTime is the Time that the Application was Built
var BuildTime string

// GitCommitID holds the Git Commit ID of the current binary/build
var GitCommitID string

// Server is the name advertised in the Server response header; defaults
// to the application name
var Server = Name

// Set records the application build information
func Set(name, version, buildTime, gitCommitID string) {
	if name != "" {
		Name = name
	}
	Version = version
	BuildTime = buildTime
	GitCommitID = gitCommitID
}

// SetServer overrides the advertised server name; empty values are ignored
func SetServer(server string) {
	if server != "" {
		Server = server
	}
}
