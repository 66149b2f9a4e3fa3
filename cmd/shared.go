/*
Copyright © 2025 Ambor <saltbo@foxmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/eslsoft/lingocast/internal/client"
	"github.com/eslsoft/lingocast/internal/infrastructure/config"
	"github.com/eslsoft/lingocast/internal/infrastructure/database"
	"github.com/eslsoft/lingocast/internal/infrastructure/server"
)

func tablesFromConfig(key string) []string {
	return normalizeTables(viper.GetStringSlice(key))
}

func normalizeTables(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	result := make([]string, 0, len(values))
	for _, value := range values {
		name := strings.TrimSpace(value)
		if name == "" {
			continue
		}
		result = append(result, strings.ToLower(name))
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

func bindFlagToViper(key string, flag *pflag.Flag) {
	if flag == nil {
		return
	}
	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// openDatabase loads config and opens the configured database, for commands
// that work on storage without starting the server.
func openDatabase() (*config.Config, *logrus.Logger, *entsql.Driver, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := server.NewLogger(cfg)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	drv, cleanup, err := database.NewDriver(cfg, logger)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("open database: %w", err)
	}
	return cfg, logger, drv, cleanup, nil
}

// openInput opens path for reading; "-" reads stdin. gzip is enabled by the
// flag or a .gz suffix.
func openInput(cmd *cobra.Command, path string, gzipEnabled bool) (io.Reader, func() error, error) {
	var (
		reader  = cmd.InOrStdin()
		closers []func() error
	)
	if path != "-" {
		file, err := os.Open(filepath.Clean(path))
		if err != nil {
			return nil, nil, fmt.Errorf("open %s: %w", path, err)
		}
		reader = file
		closers = append(closers, file.Close)
		gzipEnabled = gzipEnabled || strings.HasSuffix(strings.ToLower(path), ".gz")
	}
	if gzipEnabled {
		gzr, err := gzip.NewReader(reader)
		if err != nil {
			closeAll(closers)
			return nil, nil, fmt.Errorf("create gzip reader: %w", err)
		}
		reader = gzr
		closers = append([]func() error{gzr.Close}, closers...)
	}
	return reader, func() error { return closeAll(closers) }, nil
}

func closeAll(closers []func() error) error {
	var first error
	for _, closer := range closers {
		if err := closer(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// newAPIClient builds an SDK client for the server named in the client.*
// config section.
func newAPIClient() (*client.Client, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.Client.UserID <= 0 {
		return nil, nil, fmt.Errorf("client.user_id must be set (flag --user-id or CLIENT_USER_ID)")
	}
	httpClient := &http.Client{Timeout: 30 * time.Second}
	return client.New(httpClient, strings.TrimRight(cfg.Client.ServerURL, "/"), cfg.Client.UserID), cfg, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
