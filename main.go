package main

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/fang"

	cmd "github.com/runcard-dev/runcard/cmd/runcard"
	"github.com/runcard-dev/runcard/internal/apperr"
	"github.com/runcard-dev/runcard/internal/export"
	"github.com/runcard-dev/runcard/internal/ui"
)

func main() {
	cmd.SetVersion(export.ToolVersion())
	if err := fang.Execute(
		context.Background(),
		cmd.GetRootCmd(),
		fang.WithColorSchemeFunc(ui.FangColorScheme),
	); err != nil {
		// User deliberately cancelled an interactive flow – not a failure.
		if errors.Is(err, apperr.ErrCancelled) {
			os.Exit(0)
		}
		os.Exit(1)
	}
}
