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
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eslsoft/lingocast/internal/infrastructure/database"
	"github.com/eslsoft/lingocast/internal/usecase/backup"
)

const (
	importInputKey  = "backup.import.input"
	importGzipKey   = "backup.import.gzip"
	importTablesKey = "backup.import.tables"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Restore database content from an NDJSON backup",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		ctx := commandContext(cmd)

		inputPath := viper.GetString(importInputKey)
		if inputPath == "" {
			return fmt.Errorf("set the backup file with --input, or - for stdin")
		}

		_, logger, drv, cleanup, err := openDatabase()
		if err != nil {
			return err
		}
		defer cleanup()
		if err := database.Migrate(ctx, drv); err != nil {
			return err
		}

		reader, closeInput, err := openInput(cmd, inputPath, viper.GetBool(importGzipKey))
		if err != nil {
			return err
		}
		defer func() {
			if cerr := closeInput(); cerr != nil && err == nil {
				err = cerr
			}
		}()

		service, err := backup.NewService(drv, backup.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("create backup service: %w", err)
		}
		if err := service.Import(ctx, reader, backup.WithTables(tablesFromConfig(importTablesKey))); err != nil {
			return fmt.Errorf("import backup: %w", err)
		}
		cmd.PrintErrf("backup restored from %s\n", inputPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringP("input", "i", "", "backup file path, - for stdin")
	importCmd.Flags().Bool("gzip", false, "input is gzip compressed")
	importCmd.Flags().StringSlice("tables", nil, "only import these tables")

	bindFlagToViper(importInputKey, importCmd.Flags().Lookup("input"))
	bindFlagToViper(importGzipKey, importCmd.Flags().Lookup("gzip"))
	bindFlagToViper(importTablesKey, importCmd.Flags().Lookup("tables"))
}
