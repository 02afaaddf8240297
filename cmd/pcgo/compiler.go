package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"pcgo/packages/compiler/codegen"
	"pcgo/packages/compiler/config"
	"pcgo/packages/compiler/ctxlog"
)

// CompileApp loads the app at path, builds every page and writes one
// module per page. It returns the paths written. A relative out_dir declared
// by the app is resolved against the app file; a relative cfg.OutDir is
// resolved against the working directory.
func CompileApp(ctx context.Context, path string, cfg *config.CompilerConfig) ([]string, error) {
	logger := ctxlog.FromContext(ctx)

	app, err := config.LoadFile(ctx, path, cfg)
	if err != nil {
		return nil, err
	}

	outputDir := app.OutDir
	if (cfg == nil || cfg.OutDir == "") && !filepath.IsAbs(outputDir) {
		outputDir = filepath.Join(filepath.Dir(path), outputDir)
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating output directory: %w", err)
	}

	var written []string
	for _, page := range app.Pages {
		root, err := app.Build(ctx, page)
		if err != nil {
			return written, err
		}
		src, err := codegen.NewCodeGenerator().Generate(ctx, page.Name, app.State, root)
		if err != nil {
			return written, err
		}
		file := filepath.Join(outputDir, page.Name+".js")
		if err := os.WriteFile(file, []byte(src), 0644); err != nil {
			return written, fmt.Errorf("error writing %s: %w", file, err)
		}
		logger.Info("Compiled page", "app", app.Name, "page", page.Name, "file", file)
		written = append(written, file)
	}
	return written, nil
}
