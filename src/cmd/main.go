package main

import (
	"context"
	"fmt"
	"io"
	"os"

	app "fakeddit/src/app"
	cfg "fakeddit/src/configuration"

	log "github.com/sirupsen/logrus"
)

func main() {
	root := newRootCommand(loadEnvironment, os.Stdin, os.Stdout)
	if err := root.ExecuteContext(context.Background()); err != nil {
		report(os.Stderr, err)
		os.Exit(1)
	}
}

func loadEnvironment(ctx context.Context) (*app.Environment, error) {
	config, err := cfg.ParseProperties(".env")
	if err != nil {
		return nil, err
	}
	if level, err := log.ParseLevel(config.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.WithField("level", config.LogLevel).Warn("unknown log level, keeping info")
	}
	return app.NewEnvironment(ctx, config)
}

// report prints err the way the pages show it in their status area.
func report(w io.Writer, err error) {
	message, redirect := app.Describe(err)
	fmt.Fprintf(w, "error: %s\n", message)
	if next, ok := routeCommands[redirect]; ok {
		fmt.Fprintf(w, "run: fakeddit %s\n", next)
	}
}
