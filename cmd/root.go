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
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lingocast",
	Short: "Time-synchronized lessons, subtitles and lyrics with bookmarks",
	Long: `lingocast serves media with aligned original, translation and
transliteration tracks, keeps per-user bookmarks on questions, subtitle
lines, lyric lines and book sentences, and runs lesson sessions.

Configuration is read from .env (in ./ or ./config) and environment
variables such as SERVER_HTTP_PORT or DATABASE_DRIVER; flags win over both.`,
	SilenceUsage: true,
}

// Execute runs the root command; main calls it once.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (json or text)")
	rootCmd.PersistentFlags().String("db-driver", "", "database driver (sqlite3, postgres, pgx)")
	rootCmd.PersistentFlags().String("db-dsn", "", "database connection string")
	rootCmd.PersistentFlags().String("server-url", "", "server base URL for client commands")
	rootCmd.PersistentFlags().Int64("user-id", 0, "user id sent in the X-User-Id header by client commands")

	bindFlagToViper("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	bindFlagToViper("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
	bindFlagToViper("database.driver", rootCmd.PersistentFlags().Lookup("db-driver"))
	bindFlagToViper("database.dsn", rootCmd.PersistentFlags().Lookup("db-dsn"))
	bindFlagToViper("client.server_url", rootCmd.PersistentFlags().Lookup("server-url"))
	bindFlagToViper("client.user_id", rootCmd.PersistentFlags().Lookup("user-id"))
}
