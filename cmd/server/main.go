package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

const serviceName = "inventory-api"

// @title                       Inventory API
// @version                     1.0
// @description                 Equipment inventory with stock movements and cart checkout.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "inventory-api",
		Short:         "Inventory API - equipment catalog, stock and checkout",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(seedAdminCmd())
	rootCmd.AddCommand(resetPasswordCmd())

	return rootCmd
}
