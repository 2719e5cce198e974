// Command eventsctl is the operator tool for the events catalog.
//
// Usage:
//
//	eventsctl seed            load the sample events into the database
//	eventsctl token -sub ops  print an admin bearer token
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"

	"techevents/config"
	"techevents/internal/adapters/auth"
	"techevents/internal/database"
	"techevents/internal/repository/postgres"
	"techevents/internal/services"
)

var (
	okColor   = color.New(color.FgGreen)
	skipColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed, color.Bold)
)

func main() {
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "seed":
		err = runSeed(os.Args[2:])
	case "token":
		err = runToken(os.Args[2:])
	case "-h", "--help", "help":
		usage(os.Stdout)
		return
	default:
		usage(os.Stderr)
		os.Exit(2)
	}
	if err != nil {
		errColor.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: eventsctl <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	fmt.Fprintln(w, "  seed   create the sample events, skipping ones already stored")
	fmt.Fprintln(w, "  token  issue an admin bearer token")
}

func runSeed(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	applySchema := fs.Bool("schema", false, "apply the schema before seeding")
	timeout := fs.Duration("timeout", time.Minute, "overall time limit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := config.NewLogger(cfg.Environment, cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	manager := database.NewManager(database.Config{
		URL:                 cfg.DB.URL,
		MaxOpenConns:        cfg.DB.MaxOpenConns,
		ServerSelectTimeout: cfg.DB.ServerSelectTimeout,
		SocketIdleTimeout:   cfg.DB.SocketIdleTimeout,
	}, logger)
	defer manager.Release(context.Background())

	if *applySchema {
		if err := postgres.EnsureSchema(ctx, manager); err != nil {
			return err
		}
	}

	events, err := loadSeedEvents()
	if err != nil {
		return err
	}

	svc := services.NewEventService(postgres.NewEventRepository(manager), logger, cfg.RequestTimeout)
	res, err := seed(ctx, svc, events, os.Stdout)
	if err != nil {
		return err
	}
	fmt.Printf("%d created, %d skipped\n", res.Created, res.Skipped)
	return nil
}

func runToken(args []string) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	subject := fs.String("sub", "operator", "token subject")
	expiry := fs.Duration("expiry", 0, "token lifetime (defaults to JWT_EXPIRY)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.LoadAuth()
	if err != nil {
		return err
	}
	if *expiry <= 0 {
		*expiry = cfg.TokenExpiry
	}

	token, err := auth.NewJWTIssuer(cfg.JWTSecret).Issue(*subject, []string{auth.AdminRole}, *expiry)
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}
	fmt.Println(token)
	return nil
}
