// cmd/seed/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"github.com/javajoker/gearguard-backend/internal/config"
	"github.com/javajoker/gearguard-backend/internal/database"
)

func main() {
	flags := flag.NewFlagSet("seed", flag.ContinueOnError)
	catalogPath := flags.String("catalog", "", "package catalog YAML file (defaults to PACKAGE_CATALOG or the built-in catalog)")
	force := flags.Bool("force", false, "replace an existing catalog")
	timeout := flags.Duration("timeout", 30*time.Second, "time allowed for the whole run")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: seed [--catalog packages.yaml] [--force]\n\n")
		flags.PrintDefaults()
	}
	if err := flags.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if err := run(*catalogPath, *force, *timeout); err != nil {
		logrus.Fatal(err)
	}
}

func run(catalogPath string, force bool, timeout time.Duration) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Log.ConfigureLogger(); err != nil {
		return err
	}
	if catalogPath == "" {
		catalogPath = cfg.CatalogPath
	}

	packages, err := config.LoadCatalog(catalogPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close(ctx, s)

	seeded, err := database.SeedPackages(ctx, s, packages, force)
	if err != nil {
		return err
	}
	if !seeded {
		logrus.Info("Package catalog already present, use --force to replace it")
	}
	return nil
}
