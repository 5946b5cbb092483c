package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"adoptwatch/internal"
	"adoptwatch/internal/di"
	"adoptwatch/internal/structures"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

// Flag variables.
var (
	flags      structures.CliFlags
	outputPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "adoptwatch",
	Short:         "Pet adoption listing tracker: favorites, new matches, personal fit and offline fallback.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := di.InitApp(&flags)
		if err != nil {
			return err
		}
		return app.Run()
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a backup of every store as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(app *internal.App) error {
			data, err := json.MarshalIndent(app.Service.Export(), "", "  ")
			if err != nil {
				return err
			}
			if outputPath == "" || outputPath == "-" {
				_, err = cmd.OutOrStdout().Write(append(data, '\n'))
				return err
			}
			return os.WriteFile(outputPath, data, 0o600)
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Restore stores from a backup file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var data []byte
		var err error
		if args[0] == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(args[0])
		}
		if err != nil {
			return err
		}
		return withApp(func(app *internal.App) error {
			summary, err := app.Service.Import(data)
			if err != nil {
				return err
			}
			fields := make([]string, 0, len(summary))
			for field := range summary {
				fields = append(fields, field)
			}
			sort.Strings(fields)
			for _, field := range fields {
				fmt.Fprintf(cmd.OutOrStdout(), "%-28s %d\n", field, summary[field])
			}
			return nil
		})
	},
}

// withApp runs fn against a fully wired app and persists the store afterwards.
func withApp(fn func(app *internal.App) error) error {
	app, err := di.InitApp(&flags)
	if err != nil {
		return err
	}
	runErr := fn(app)
	if err := app.Close(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", "config.yml",
		"Path to the YAML config file.")
	rootCmd.PersistentFlags().BoolVarP(&flags.DebugMode, "debug", "d", false,
		"Log to the console at debug level.")
	exportCmd.Flags().StringVarP(&outputPath, "output", "o", "-",
		"Output file path. Defaults to stdout.")

	rootCmd.AddCommand(serveCmd, exportCmd, importCmd)
}
