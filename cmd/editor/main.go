package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/zeusync/prefab/internal/config"
	"github.com/zeusync/prefab/internal/editor"
	"github.com/zeusync/prefab/internal/injector"
)

func main() {
	configPath := flag.String("config", "editor.yaml", "path to the editor config")
	scriptPath := flag.String("script", "", "YAML list of input steps to replay")
	save := flag.Bool("save", false, "save the scene and library after the script")
	flag.Parse()

	if err := run(*configPath, *scriptPath, *save); err != nil {
		fmt.Fprintln(os.Stderr, "editor:", err)
		os.Exit(1)
	}
}

func run(configPath, scriptPath string, save bool) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	ed, cleanup, err := injector.Initialize(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if err = ed.Load(ctx); err != nil {
		return err
	}

	var steps []editor.Step
	if scriptPath != "" {
		f, err := os.Open(scriptPath)
		if err != nil {
			return err
		}
		steps, err = editor.DecodeScript(f)
		_ = f.Close()
		if err != nil {
			return err
		}
	}
	// step failures are logged by the editor; only fatal errors stop the run
	if err = ed.Run(ctx, steps); err != nil && ctx.Err() != nil {
		return err
	}

	if save {
		return ed.Save(ctx)
	}
	if dirty, err := ed.Dirty(); err == nil && dirty {
		fmt.Fprintln(os.Stderr, "editor: exiting with unsaved changes (run with -save to keep them)")
	}
	return nil
}
