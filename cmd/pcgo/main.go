package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"pcgo/packages/compiler/config"
	"pcgo/packages/compiler/ctxlog"
)

func usage() {
	fmt.Println(`pcgo - compile declarative pages to React modules
Usage: pcgo <command> [args]

Commands:
  compile [-out dir] [-strict] [-v] <app.hcl>   Compile every page of the app
  help                                          Show help`)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	cmd := os.Args[1]
	switch cmd {
	case "help":
		usage()
	case "compile":
		if err := runCompile(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "compile error: %v\n", err)
			os.Exit(1)
		}
	default:
		usage()
		os.Exit(1)
	}
}

func runCompile(args []string) error {
	fs := flag.NewFlagSet("compile", flag.ContinueOnError)
	out := fs.String("out", "", "Output directory (overrides the app's out_dir)")
	strict := fs.Bool("strict", false, "Require every state var to declare a type")
	verbose := fs.Bool("v", false, "Enable debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	path := "app.hcl"
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	cfg := config.NewCompilerConfig(
		config.WithOutDir(*out),
		config.WithStrictTypes(*strict),
	)
	written, err := CompileApp(ctx, path, cfg)
	if err != nil {
		return err
	}
	for _, f := range written {
		fmt.Printf("wrote %s\n", f)
	}
	return nil
}
