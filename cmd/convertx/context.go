package main

import (
	"os"
	"strings"
	"sync"

	"convertx/internal/api"
	"convertx/internal/config"
)

type commandContext struct {
	serverFlag *string
	tokenFlag  *string
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(serverFlag, tokenFlag, configFlag *string) *commandContext {
	return &commandContext{
		serverFlag: serverFlag,
		tokenFlag:  tokenFlag,
		configFlag: configFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// serverURL resolves the API base URL: the --server flag wins, then the
// configured bind address.
func (c *commandContext) serverURL() string {
	if c.serverFlag != nil {
		if server := strings.TrimSpace(*c.serverFlag); server != "" {
			return server
		}
	}
	if cfg, err := c.ensureConfig(); err == nil && cfg != nil {
		if bind := strings.TrimSpace(cfg.Paths.APIBind); bind != "" {
			return "http://" + bind
		}
	}
	return "http://127.0.0.1:7733"
}

// token resolves the API token: the --token flag wins, then CONVERTX_TOKEN.
func (c *commandContext) token() string {
	if c.tokenFlag != nil {
		if token := strings.TrimSpace(*c.tokenFlag); token != "" {
			return token
		}
	}
	return strings.TrimSpace(os.Getenv("CONVERTX_TOKEN"))
}

func (c *commandContext) apiClient() *api.Client {
	return api.NewClient(c.serverURL(), c.token(), nil)
}
