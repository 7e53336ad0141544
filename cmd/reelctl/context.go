package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	service "github.com/okian/reelrank/internal/app"
	"github.com/okian/reelrank/internal/config"
	"github.com/okian/reelrank/internal/probe"
	"github.com/okian/reelrank/pkg/logger"
)

// commandContext carries the persistent flags and lazily built clients.
type commandContext struct {
	url      string
	timeout  time.Duration
	local    bool
	jsonOut  bool
	logLevel string

	once   sync.Once
	cfg    *config.Config
	cfgErr error
}

func newCommandContext() *commandContext {
	return &commandContext{}
}

func (c *commandContext) initLogging(stderr io.Writer) error {
	if err := logger.Init(logger.WithWriter(stderr)); err != nil {
		return err
	}
	return logger.SetLevelString(c.logLevel)
}

// ensureConfig loads layered configuration once.
func (c *commandContext) ensureConfig(ctx context.Context) (*config.Config, error) {
	c.once.Do(func() {
		c.cfg, c.cfgErr = config.Load(ctx)
	})
	return c.cfg, c.cfgErr
}

func (c *commandContext) client() *probe.Client {
	return probe.NewClient(c.url, c.timeout)
}

// withLocalService runs fn against a started in-process service built from
// configuration, warmed from the snapshot cache when it is fresh.
func (c *commandContext) withLocalService(ctx context.Context, fn func(*service.Service) error) error {
	cfg, err := c.ensureConfig(ctx)
	if err != nil {
		return err
	}
	svc, err := service.FromConfig(cfg)
	if err != nil {
		return err
	}
	defer svc.Stop()
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start catalog: %w", err)
	}
	return fn(svc)
}

// emit writes v as indented JSON when --json is set, otherwise the table.
func (c *commandContext) emit(cmd *cobra.Command, v any, headers []string, rows [][]string, aligns []columnAlignment) error {
	out := cmd.OutOrStdout()
	if c.jsonOut {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("encode output: %w", err)
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintln(out, "No results")
		return err
	}
	_, err := fmt.Fprintln(out, renderTable(headers, rows, aligns))
	return err
}

func defaultURL() string {
	if v := os.Getenv("REELRANK_URL"); v != "" {
		return v
	}
	return probe.DefaultBaseURL
}
