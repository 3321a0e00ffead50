package config

import (
	"flag"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-data-dir client state directory
//	-rp-id passkey relying party id
//	-rp-name passkey relying party name
//	-request-timeout provider request timeout (e.g., "10s", "1m")
//	-c/-config json file path with configs
func ParseFlags() *StructuredConfig {
	var dataDir string
	var relyingPartyID string
	var relyingPartyName string
	var requestTimeout time.Duration
	var jsonConfigPath string

	flag.StringVar(&dataDir, "data-dir", "", "Client state directory")
	flag.StringVar(&relyingPartyID, "rp-id", "", "Passkey relying party id")
	flag.StringVar(&relyingPartyName, "rp-name", "", "Passkey relying party name")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Provider request timeout (e.g., 10s, 1m)")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			RelyingPartyID:   relyingPartyID,
			RelyingPartyName: relyingPartyName,
		},
		Storage: Storage{
			DataDir: dataDir,
		},
		Adapter: Adapter{
			RequestTimeout: requestTimeout,
		},
		JSONFilePath: jsonConfigPath,
	}
}
