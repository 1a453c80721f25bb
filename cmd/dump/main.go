package main

import (
	"os"
	"strings"

	"braindump/internal/cli"
	"braindump/internal/store"

	_ "github.com/joho/godotenv/autoload"
)

func rewriteDirectEntryArgs(argv []string) []string {
	// Convenience: `dump 2026012201` works like `dump show 2026012201`.
	//
	// Cobra treats the first non-flag token as a subcommand, so argv is
	// rewritten before parsing. Persistent flags may come first
	// (`dump --dir ~/j 2026012201`), so look for the first positional token.
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--dir":    true,
		"--config": true,
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && store.IsID(argv[i+1]) {
				return insertShow(argv, i+1)
			}
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		}
		if store.IsID(a) {
			return insertShow(argv, i)
		}
		return argv
	}
	return argv
}

func insertShow(argv []string, at int) []string {
	out := make([]string, 0, len(argv)+1)
	out = append(out, argv[:at]...)
	out = append(out, "show")
	return append(out, argv[at:]...)
}

func main() {
	os.Args = rewriteDirectEntryArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		cli.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}
