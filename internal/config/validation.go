package config

import (
	"net"
	"path/filepath"
	"strings"

	derrors "git.home.luguber.info/inful/sdkdocs/internal/errors"
)

// Validate checks the configuration for values the generator cannot work with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Root) == "" {
		return derrors.ValidationFailed("root", "must not be empty")
	}
	if !strings.HasPrefix(c.BaseURL, "/") && !strings.Contains(c.BaseURL, "://") {
		return derrors.ValidationFailed("base_url", "must be an absolute path or URL")
	}
	for field, p := range map[string]string{
		"packages_dir":  c.PackagesDir,
		"template":      c.Template,
		"guides.source": c.Guides.Source,
	} {
		if filepath.IsAbs(p) {
			return derrors.ValidationFailed(field, "must be relative to root")
		}
	}
	if strings.Contains(c.Guides.Target, "..") {
		return derrors.ValidationFailed("guides.target", "must not leave the output directory")
	}
	if _, _, err := net.SplitHostPort(c.Serve.Addr); err != nil {
		return derrors.ValidationFailed("serve.addr", err.Error())
	}
	return nil
}
