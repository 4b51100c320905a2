package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"pitchclerk/internal/config"
	"pitchclerk/internal/gateway"
	"pitchclerk/internal/localstore"
	"pitchclerk/internal/logging"
	"pitchclerk/internal/services"
	adminsvc "pitchclerk/internal/services/admin"
	"pitchclerk/internal/services/auth"
	pitchsvc "pitchclerk/internal/services/pitch"
	"pitchclerk/internal/session"
)

var errSignedOut = errors.New("not signed in; run `pitchclerk auth login` first")

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
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
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) jsonMode() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// clients bundles everything a command needs to talk to the API for one
// invocation.
type clients struct {
	cfg     *config.Config
	logger  *slog.Logger
	session *session.Session
	gateway *gateway.Client
	auth    *auth.Service
	pitch   *pitchsvc.Service
	admin   *adminsvc.Service
}

// withClients opens the session store, builds the gateway and services, and
// closes the store once fn returns.
func (c *commandContext) withClients(cmd *cobra.Command, fn func(*clients) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	store, err := localstore.Open(cmd.Context(), cfg.SessionDBPath())
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer store.Close()

	sess := session.New(store, session.WithLogger(logger))
	if err := sess.Load(cmd.Context()); err != nil {
		return err
	}

	gw, err := gateway.New(gateway.Config{
		BaseURL: cfg.API.BaseURL,
		APIKey:  cfg.API.APIKey,
		Timeout: cfg.Timeout(),
	}, sess, gateway.WithLogger(logger))
	if err != nil {
		return err
	}

	return fn(&clients{
		cfg:     cfg,
		logger:  logger,
		session: sess,
		gateway: gw,
		auth:    auth.New(gw, sess, logger),
		pitch:   pitchsvc.New(gw, logger),
		admin:   adminsvc.New(gw, logger),
	})
}

// requireUser restores the stored session and fails when nobody is signed in.
func (cl *clients) requireUser(cmd *cobra.Command) (*session.User, error) {
	user, err := cl.auth.Restore(cmd.Context())
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errSignedOut
	}
	return user, nil
}

// requireAdmin is requireUser plus a role check.
func (cl *clients) requireAdmin(cmd *cobra.Command) (*session.User, error) {
	user, err := cl.requireUser(cmd)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		return nil, fmt.Errorf("%s is not an administrator", user.Email)
	}
	return user, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

// errorText is what the user sees for a failed command. API failures use
// their user-facing message; everything else prints as is.
func errorText(err error) string {
	var apiErr *services.APIError
	if errors.As(err, &apiErr) {
		return "Error: " + services.UserMessage(err, "")
	}
	return "Error: " + err.Error()
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func valueOrDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
