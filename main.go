package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/docuflow/docuflow/cmd"
	"github.com/docuflow/docuflow/internal/api"
)

func main() {
	root := cmd.NewRootCmd()

	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(api.Version),
		fang.WithNotifySignal(os.Interrupt, os.Kill),
	); err != nil {
		os.Exit(1)
	}
}
