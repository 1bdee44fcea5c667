package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/optiflow/optiflow/internal/store/sqlite"
)

func main() {
	path := flag.String("db", "optiflow.db", "path to the sqlite hr database")
	seed := flag.Bool("seed", true, "insert demo hr data after creating the schema")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := sqlite.Open(ctx, *path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "database open error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	ready, err := sqlite.Bootstrapped(ctx, db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bootstrap check failed: %v\n", err)
		os.Exit(1)
	}
	if ready {
		fmt.Printf("%s already bootstrapped\n", *path)
		return
	}

	if err := sqlite.Bootstrap(ctx, db); err != nil {
		fmt.Fprintf(os.Stderr, "bootstrap failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("created schema in %s\n", *path)

	if *seed {
		if err := sqlite.Seed(ctx, db, time.Now); err != nil {
			fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("inserted demo hr data")
	}
}
