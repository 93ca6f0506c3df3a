package onnx

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/custodia-labs/ragkit/internal/core/domain"
)

// Check verifies the runtime library, model and tokenizer are present.
// It returns domain.ErrModelUnavailable wrapped with the first missing piece.
func Check(cfg Config) error {
	if _, err := ResolveLibrary(cfg); err != nil {
		return err
	}
	if cfg.ModelDir == "" {
		return fmt.Errorf("%w: embedding.model_dir is not set", domain.ErrModelUnavailable)
	}
	for _, p := range []string{cfg.ModelPath(), cfg.TokenizerPath()} {
		if err := regularFile(p); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrModelUnavailable, err)
		}
	}
	return nil
}

// ResolveLibrary returns the ONNX Runtime shared library path. An explicit
// path must exist; otherwise the platform's library names are searched in
// the loader path and the usual system directories.
func ResolveLibrary(cfg Config) (string, error) {
	if cfg.SharedLibrary != "" {
		if err := regularFile(cfg.SharedLibrary); err != nil {
			return "", fmt.Errorf("%w: onnxruntime library: %w", domain.ErrModelUnavailable, err)
		}
		return cfg.SharedLibrary, nil
	}

	names := libraryNames(runtime.GOOS)
	for _, dir := range librarySearchPath() {
		for _, name := range names {
			p := filepath.Join(dir, name)
			if regularFile(p) == nil {
				return p, nil
			}
		}
	}
	return "", fmt.Errorf("%w: onnxruntime library %v not found, set embedding.shared_library",
		domain.ErrModelUnavailable, names)
}

func libraryNames(goos string) []string {
	switch goos {
	case "darwin":
		return []string{"libonnxruntime.dylib", "onnxruntime.dylib"}
	case "windows":
		return []string{"onnxruntime.dll"}
	default:
		return []string{"libonnxruntime.so", "onnxruntime.so"}
	}
}

func librarySearchPath() []string {
	var dirs []string
	for _, env := range []string{"LD_LIBRARY_PATH", "DYLD_LIBRARY_PATH"} {
		dirs = append(dirs, filepath.SplitList(os.Getenv(env))...)
	}
	return append(dirs,
		"/usr/local/lib",
		"/usr/lib",
		"/usr/lib/x86_64-linux-gnu",
		"/usr/lib/aarch64-linux-gnu",
		"/opt/homebrew/lib",
	)
}

func regularFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}
