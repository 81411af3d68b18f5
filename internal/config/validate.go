package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir is required")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir is required")
	}
	if c.Conversion.ConvertTimeout <= 0 {
		return fmt.Errorf("conversion.convert_timeout must be positive, got %d", c.Conversion.ConvertTimeout)
	}
	if c.Conversion.FetchTimeout <= 0 {
		return fmt.Errorf("conversion.fetch_timeout must be positive, got %d", c.Conversion.FetchTimeout)
	}
	if c.Conversion.MaxFetchMiB <= 0 {
		return fmt.Errorf("conversion.max_fetch_mib must be positive, got %d", c.Conversion.MaxFetchMiB)
	}
	if c.Conversion.MinFreeGiB < 0 {
		return fmt.Errorf("conversion.min_free_gib must not be negative, got %d", c.Conversion.MinFreeGiB)
	}

	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}

	seenNames := make(map[string]struct{}, len(c.Auth.Users))
	seenTokens := make(map[string]struct{}, len(c.Auth.Users))
	for _, user := range c.Auth.Users {
		if user.Name == "" {
			return errors.New("auth.users entries require a name")
		}
		if user.Token == "" {
			return fmt.Errorf("auth user %q requires a token", user.Name)
		}
		if _, ok := seenNames[user.Name]; ok {
			return fmt.Errorf("auth user %q declared twice", user.Name)
		}
		if _, ok := seenTokens[user.Token]; ok {
			return fmt.Errorf("auth user %q reuses another user's token", user.Name)
		}
		seenNames[user.Name] = struct{}{}
		seenTokens[user.Token] = struct{}{}
	}

	return nil
}
