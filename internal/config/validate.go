package config

import (
	"fmt"
	"os"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true,
}

var validLogFormats = map[string]bool{
	"text": true, "json": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if !validLogLevels[c.Logging.Level] {
		errs = append(errs, fmt.Sprintf("logging.level: must be one of debug, info, warn, error; got %q", c.Logging.Level))
	}
	if !validLogFormats[c.Logging.Format] {
		errs = append(errs, fmt.Sprintf("logging.format: must be text or json; got %q", c.Logging.Format))
	}

	if c.Downloads.CookiesFile != "" {
		if _, err := os.Stat(c.Downloads.CookiesFile); err != nil {
			errs = append(errs, fmt.Sprintf("downloads.cookies_file: %q is not readable", c.Downloads.CookiesFile))
		}
	}

	return errs
}
