// Command uimap scans a React, Next.js or Vite source tree and emits a
// structured map of its UI architecture: routes, components, hooks, contexts,
// utilities and server actions.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/uimap/internal/cache"
	"github.com/standardbeagle/uimap/internal/config"
	"github.com/standardbeagle/uimap/internal/debug"
	"github.com/standardbeagle/uimap/internal/scanner"
	"github.com/standardbeagle/uimap/internal/types"
	"github.com/standardbeagle/uimap/internal/watch"
	"github.com/standardbeagle/uimap/pkg/pathutil"
)

// Version is set via ldflags at release build time.
var Version = "dev"

func main() {
	app := &cli.App{
		Name:    "uimap",
		Usage:   "map the UI architecture of a React/Next.js/Vite project",
		Version: Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging to stderr",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("debug") {
				os.Setenv("UIMAP_DEBUG", "1")
			}
			return nil
		},
		Commands: []*cli.Command{
			scanCommand(),
			statusCommand(),
			watchCommand(),
		},
		DefaultCommand: "scan",
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "uimap: %v\n", err)
		os.Exit(1)
	}
}

func rootFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "root",
		Aliases: []string{"r"},
		Value:   ".",
		Usage:   "project root directory",
	}
}

func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "path to a .uimap.kdl config file (default: <root>/.uimap.kdl)",
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	return config.LoadFile(c.String("root"), c.String("config"))
}

func scanCommand() *cli.Command {
	return &cli.Command{
		Name:  "scan",
		Usage: "scan the project and print the architecture map as JSON",
		Flags: []cli.Flag{
			rootFlag(),
			configFlag(),
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   "rescan even when a cached snapshot exists",
			},
			&cli.BoolFlag{
				Name:  "compact",
				Usage: "emit compact JSON instead of indented",
			},
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "disable snapshot caching for this run",
			},
			&cli.BoolFlag{
				Name:  "absolute",
				Usage: "keep absolute file paths in the output",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if c.Bool("no-cache") {
				cfg.Cache.Enabled = false
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			result, err := scanner.NewSession().Scan(ctx, cfg, scanner.Options{Force: c.Bool("force")})
			if err != nil {
				return err
			}
			if !c.Bool("absolute") {
				result = pathutil.ToRelativeScanResult(result, cfg.Project.Root)
			}
			return printJSON(result, !c.Bool("compact"))
		},
	}
}

func statusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "summarize the cached snapshot without rescanning",
		Flags: []cli.Flag{rootFlag(), configFlag()},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			store := cache.NewStore(cfg.CacheDir())
			result, err := store.Load(cfg.Project.Root)
			if err != nil {
				return fmt.Errorf("cached snapshot unusable: %w", err)
			}
			if result == nil {
				fmt.Printf("no cached snapshot for %s\n", cfg.Project.Root)
				return nil
			}
			printStatus(result)
			return nil
		},
	}
}

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "keep the snapshot fresh by rescanning on source changes",
		Flags: []cli.Flag{rootFlag(), configFlag()},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			session := scanner.NewSession()
			rescan := func(reason string) {
				result, err := session.Scan(ctx, cfg, scanner.Options{Force: true})
				if err != nil {
					fmt.Fprintf(os.Stderr, "uimap: rescan failed: %v\n", err)
					return
				}
				fmt.Printf("[%s] %s: %d entities, %d warnings\n",
					time.Now().Format("15:04:05"), reason, result.EntityCount(), len(result.Warnings))
			}

			rescan("initial scan")

			w, err := watch.New(cfg, func(paths []string) {
				debug.Log("WATCH", "%d changed paths", len(paths))
				rescan(fmt.Sprintf("%d files changed", len(paths)))
			})
			if err != nil {
				return err
			}
			if err := w.Start(ctx); err != nil {
				return err
			}
			defer w.Stop()

			<-ctx.Done()
			return nil
		},
	}
}

func printJSON(result *types.ScanResult, indent bool) error {
	enc := json.NewEncoder(os.Stdout)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(result)
}

func printStatus(result *types.ScanResult) {
	fmt.Printf("project:    %s (%s)\n", result.ProjectName, result.ProjectPath)
	fmt.Printf("framework:  %s, router: %s\n", result.Framework, result.RouterType)
	fmt.Printf("scanned:    %s\n", result.ScannedAt.Format(time.RFC3339))
	fmt.Printf("pages:      %d\n", len(result.Pages))
	fmt.Printf("components: %d\n", len(result.Components))
	fmt.Printf("hooks:      %d\n", len(result.Hooks))
	fmt.Printf("contexts:   %d\n", len(result.Contexts))
	fmt.Printf("utilities:  %d\n", len(result.Utilities))
	fmt.Printf("actions:    %d files\n", len(result.ServerActionFiles))
	if len(result.Warnings) > 0 {
		fmt.Printf("warnings:   %d\n", len(result.Warnings))
	}
}
