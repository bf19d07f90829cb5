package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"etymap/internal/config"
	"etymap/internal/daemonctl"
)

type commandContext struct {
	bindFlag   *string
	configFlag *string
	userFlag   *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(bindFlag, configFlag, userFlag *string) *commandContext {
	return &commandContext{
		bindFlag:   bindFlag,
		configFlag: configFlag,
		userFlag:   userFlag,
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

func (c *commandContext) client() (*daemonctl.Client, error) {
	bind := ""
	if c.bindFlag != nil {
		bind = strings.TrimSpace(*c.bindFlag)
	}
	if bind == "" {
		cfg, err := c.ensureConfig()
		if err != nil {
			return nil, err
		}
		bind = cfg.Paths.APIBind
	}
	if bind == "" {
		return nil, errors.New("daemon API address unknown (set paths.api_bind or pass --bind)")
	}
	return daemonctl.New(bind), nil
}

// userID resolves the user identity for collection and group commands, from
// the --user flag, ETYMAP_USER, or the OS username in that order.
func (c *commandContext) userID() (string, error) {
	if c.userFlag != nil && strings.TrimSpace(*c.userFlag) != "" {
		return strings.TrimSpace(*c.userFlag), nil
	}
	if env := strings.TrimSpace(os.Getenv("ETYMAP_USER")); env != "" {
		return env, nil
	}
	if name := strings.TrimSpace(os.Getenv("USER")); name != "" {
		return name, nil
	}
	return "", errors.New("user identity unknown (pass --user or set ETYMAP_USER)")
}

func wrapDaemonError(err error) error {
	if errors.Is(err, daemonctl.ErrDaemonNotRunning) {
		return fmt.Errorf("daemon unreachable; start it with `etymapd`")
	}
	return err
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
