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

package main

import "fmt"

const usageText = `
Trestle Usage:

 You must provide -version, -validate-config, or a valid configuration

 Print Version Info:
 trestle -version

 Validate a configuration file:
 trestle -validate-config -config /path/to/file

 Run the server with a configuration file:
 trestle -config /path/to/file

 Run the server with a configuration file, overriding the listen port:
 trestle -config /path/to/file -port 8080

Available flags:

 -config string
     Path to the configuration file. Reloads apply when the file changes
     or the process receives SIGHUP.

 -log-level string
     Overrides the configured log level (debug, info, warn, error).

 -port int
     Overrides the configured frontend listen port.

 -metrics-port int
     Overrides the configured metrics listen port.

 -validate-config
     Validates the configuration indicated by -config and exits.

 -version
     Prints the version number and exits.
`

// PrintUsage prints the application usage to the console
func PrintUsage() {
	PrintVersion()
	fmt.Print(usageText)
}

// PrintVersion prints the application version info to the console
func PrintVersion() {
	fmt.Printf("%s version %s, commit %s, built %s\n",
		applicationName, applicationVersion,
		applicationGitCommitID, applicationBuildTime)
}
