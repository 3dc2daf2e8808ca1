// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import "flag"

const defaultConfigPath = "./config.yaml"

// parseCommandLineArgs registers the -config flag once, parses the command line
// and returns the flag value.
func parseCommandLineArgs() string {
	configFlag := flag.Lookup("config")
	if configFlag == nil {
		flag.String("config", defaultConfigPath, "Path to a Portail configuration file in YAML format.")

		configFlag = flag.Lookup("config")
	}

	if !flag.Parsed() {
		flag.Parse()
	}

	return configFlag.Value.String()
}
