// Package main provides the entry point for the contajur CLI application.
package main

import (
	"fmt"
	"os"

	"contajur/ledger/cmd/classify"
	"contajur/ledger/cmd/compare"
	"contajur/ledger/cmd/export"
	"contajur/ledger/cmd/imports"
	"contajur/ledger/cmd/periods"
	"contajur/ledger/cmd/remove"
	"contajur/ledger/cmd/root"
	"contajur/ledger/cmd/show"
	"contajur/ledger/cmd/withdraw"
	"contajur/ledger/internal/config"
)

func init() {
	// .env first so LOG_LEVEL style overrides apply before any logging
	config.LoadEnv()

	root.Init()

	root.Cmd.AddCommand(imports.Cmd)
	root.Cmd.AddCommand(periods.Cmd)
	root.Cmd.AddCommand(show.Cmd)
	root.Cmd.AddCommand(compare.Cmd)
	root.Cmd.AddCommand(remove.Cmd)
	root.Cmd.AddCommand(withdraw.Cmd)
	root.Cmd.AddCommand(export.Cmd)
	root.Cmd.AddCommand(classify.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
