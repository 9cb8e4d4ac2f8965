package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"fund_loader/internal/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	appName = "fund_loader"
)

var (
	cfgFile string
	// limitsConfig holds the limits file and FUNDLOAD_ overrides; flags stay on the global viper.
	limitsConfig *viper.Viper
	version = "dev"
	rootCmd = &cobra.Command{
		Use:   "processor",
		Short: "Validate fund load requests against per-customer velocity limits",
		Long: `processor reads fund load attempts as line-delimited JSON, applies the
daily, weekly and count limits plus the Monday and prime-id sanctions, and
writes one accept/reject decision per attempt in input order.`,
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config/config.yml", "limits config file")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "json", "log format (console, json)")

	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(processCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(cmd *cobra.Command, _ []string) error {
	config.BindEnv(viper.GetViper())

	// The default path is optional; an explicit --config must exist.
	var path string
	if cfgFile != "" && (cmd.Flags().Changed("config") || fileExists(cfgFile)) {
		path = cfgFile
	}

	v, err := config.New(path)
	if err != nil {
		return err
	}
	limitsConfig = v

	return setupLogging(viper.GetString("logging.level"), viper.GetString("logging.format"))
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func setupLogging(level, format string) error {
	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		return fmt.Errorf("invalid log level: %s", level)
	}

	opts := &slog.HandlerOptions{
		Level: slogLevel,
	}

	// Logs go to stderr so stdout stays free for decisions.
	var handler slog.Handler
	switch format {
	case "console":
		handler = slog.NewTextHandler(os.Stderr, opts)
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		return fmt.Errorf("invalid log format: %s", format)
	}

	slog.SetDefault(slog.New(handler).With(slog.String("app", appName)))
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", appName, version)
		},
	}
}
