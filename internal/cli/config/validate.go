package config

import "fmt"

// supportedEncodings are the charsets internal/fileio can decode.
var supportedEncodings = map[string]bool{
	"utf-8":        true,
	"utf8":         true,
	"latin-1":      true,
	"iso-8859-1":   true,
	"cp1252":       true,
	"windows-1252": true,
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := c.Delimiters(); err != nil {
		return err
	}
	if c.Encoding != "" && !supportedEncodings[c.Encoding] {
		return fmt.Errorf("unsupported encoding: %s", c.Encoding)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Port)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	return nil
}
