package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"codemux/lspmux/bridge"
	"codemux/lspmux/logger"
	"codemux/lspmux/lsp"
	"codemux/lspmux/mcpserver"
	"codemux/lspmux/watcher"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

var (
	confPath string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "lspmux [project-root]",
	Short: "Bridge Language Server Protocol peers into MCP tools over stdio",
	Args:  cobra.MaximumNArgs(1),
	RunE:  run,

	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Flags().StringVarP(&confPath, "config", "c", "", "Path to the server config file")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
}

// tryLoadConfig attempts the explicit config path first, then well-known
// locations under the project root. A missing config is not fatal: the
// bridge runs with zero peers and tool calls explain what to create.
func tryLoadConfig(primaryPath, projectRoot string) *lsp.BridgeConfig {
	candidates := []string{}
	if primaryPath != "" {
		candidates = append(candidates, primaryPath)
	}
	candidates = append(candidates,
		filepath.Join(projectRoot, "lspmux.json"),
		filepath.Join(projectRoot, ".lspmux", "config.json"),
	)

	for _, candidate := range candidates {
		config, err := lsp.LoadConfig(candidate)
		if err == nil {
			logger.Infow("configuration loaded", "path", candidate, "servers", config.ServerNames())
			return config
		}
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warnw("config file rejected", "path", candidate, "error", err)
		}
	}

	logger.Warn("no configuration found; running with zero language servers")

	return &lsp.BridgeConfig{}
}

func run(cmd *cobra.Command, args []string) error {
	projectRoot := "."
	if len(args) > 0 {
		projectRoot = args[0]
	}

	absRoot, err := filepath.Abs(projectRoot)
	if err != nil {
		return err
	}

	logger.Init(logLevel)
	defer logger.Sync()

	logger.Infow("starting lspmux", "root", absRoot)

	config := tryLoadConfig(confPath, absRoot)

	b, err := bridge.New(config, absRoot)
	if err != nil {
		return err
	}

	if w, err := watcher.New(b.ResyncDocument); err != nil {
		logger.Warnw("document watcher unavailable", "error", err)
	} else {
		b.AttachWatcher(w)
	}

	mcpServer := mcpserver.SetupMCPServer(b)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-signals
		logger.Infow("shutting down", "signal", sig.String())
		b.ShutdownAll()
		logger.Sync()
		os.Exit(0)
	}()

	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Errorw("mcp server error", "error", err)
		b.ShutdownAll()
		return err
	}

	// Transport closed (stdin EOF); shut peers down before exiting.
	b.ShutdownAll()

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "lspmux:", err)
		os.Exit(1)
	}
}
