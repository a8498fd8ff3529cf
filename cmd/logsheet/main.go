// Package main provides the CLI entry point for logsheet.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"logsheet/pkg/logsheet"
	"logsheet/pkg/logsheet/models"
	"logsheet/pkg/logsheet/writer"
)

var (
	cfgFile      string
	filePath     string
	outputPath   string
	folderPath   string
	outputFolder string
	recurse      bool
	format       string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "logsheet",
		Short: "Convert structured access logs to CSV or XLSX",
		Long: `logsheet converts structured web-server access logs (a #Fields header
directive plus whitespace-separated data rows) into delimited text or
spreadsheet workbooks, preserving directory structure when processing a
tree of files.`,
		RunE: runConvert,
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: $HOME/.logsheet.yaml)")
	rootCmd.PersistentFlags().StringVar(&filePath, "file", "", "path to a single log file to process")
	rootCmd.PersistentFlags().StringVar(&outputPath, "output", "", "output file path for single log processing")
	rootCmd.PersistentFlags().StringVar(&folderPath, "folder", "", "path to a folder containing log files")
	rootCmd.PersistentFlags().StringVar(&outputFolder, "output-folder", "", "output folder for processed logs")
	rootCmd.PersistentFlags().BoolVar(&recurse, "recurse", false, "recursively find logs in subdirectories")
	rootCmd.PersistentFlags().StringVar(&format, "format", "", "output file format: csv, xlsx (default: csv)")
	rootCmd.MarkFlagsMutuallyExclusive("file", "folder")

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch a folder and convert log files as they appear",
		Long: `watch observes --folder and converts matching log files to
--output-folder whenever they are created or rewritten. Each change
reprocesses the whole file. Stop with Ctrl-C.`,
		RunE: runWatch,
	}
	rootCmd.AddCommand(watchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".logsheet")
		viper.SetConfigType("yaml")
	}

	viper.SetDefault("format", "csv")
	viper.SetDefault("workers", runtime.NumCPU())
	viper.SetDefault("chunk-size", writer.DefaultChunkSize)
	viper.SetDefault("extension", logsheet.DefaultExtension)
	viper.SetDefault("log-file", "logsheet.log")

	viper.SetEnvPrefix("LOGSHEET")
	viper.AutomaticEnv()
	_ = viper.ReadInConfig()
}

// newLogger builds the run logger writing to stderr and, best effort,
// to a truncated run log file.
func newLogger() (*log.Logger, func()) {
	w := io.Writer(os.Stderr)
	cleanup := func() {}
	if path := viper.GetString("log-file"); path != "" {
		if lf, err := os.Create(path); err == nil {
			w = io.MultiWriter(os.Stderr, lf)
			cleanup = func() { lf.Close() }
		}
	}
	return log.New(w, "", log.LstdFlags), cleanup
}

func buildOptions(cmd *cobra.Command, logger *log.Logger) (logsheet.Options, error) {
	if !cmd.Flags().Changed("format") {
		format = viper.GetString("format")
	}
	f, err := logsheet.ParseFormat(format)
	if err != nil {
		return logsheet.Options{}, fmt.Errorf("invalid format %q (must be csv or xlsx)", format)
	}

	opts := logsheet.DefaultOptions()
	opts.Format = f
	opts.ChunkSize = viper.GetInt("chunk-size")
	opts.Extension = viper.GetString("extension")
	opts.Workers = viper.GetInt("workers")
	opts.Logger = logger
	return opts, nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	logger, cleanup := newLogger()
	defer cleanup()

	opts, err := buildOptions(cmd, logger)
	if err != nil {
		return err
	}

	start := time.Now()
	defer func() {
		logger.Printf("completed in %.2f seconds", time.Since(start).Seconds())
	}()

	switch {
	case filePath != "":
		if outputPath == "" {
			return errors.New("--output must be specified with --file")
		}
		if _, err := os.Stat(filePath); err != nil {
			return fmt.Errorf("source file not found: %s", filePath)
		}
		dest := strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + opts.Format.Ext()
		if err := logsheet.Convert(filePath, dest, opts); err != nil {
			return err
		}
		logger.Printf("converted: %s -> %s", filePath, dest)
		return nil

	case folderPath != "":
		if outputFolder == "" {
			return errors.New("--output-folder must be specified with --folder")
		}
		if _, err := os.Stat(folderPath); err != nil {
			return fmt.Errorf("source folder not found: %s", folderPath)
		}
		results, err := logsheet.ConvertTree(context.Background(), folderPath, outputFolder, recurse, opts)
		if err != nil {
			return err
		}
		s := models.Summarize(results)
		logger.Printf("converted %d file(s), %d failed", s.Converted, s.Failed)
		// Best-effort batch: individual failures do not set exit status.
		return nil

	default:
		return errors.New("either --file or --folder must be specified")
	}
}

func runWatch(cmd *cobra.Command, args []string) error {
	if folderPath == "" || outputFolder == "" {
		return errors.New("watch requires --folder and --output-folder")
	}
	if _, err := os.Stat(folderPath); err != nil {
		return fmt.Errorf("source folder not found: %s", folderPath)
	}

	logger, cleanup := newLogger()
	defer cleanup()

	opts, err := buildOptions(cmd, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Printf("watching %s -> %s", folderPath, outputFolder)
	return logsheet.Watch(ctx, folderPath, outputFolder, recurse, opts)
}
