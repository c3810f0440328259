// Package main is the entrypoint for the List Management service.
// ListMgmt handles list lifecycle, membership, items, accounts, and the
// event subscription endpoint.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aelexs/listshare-platform/internal/config"
	"github.com/aelexs/listshare-platform/internal/server"
)

func main() {
	ctx := context.Background()
	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	return server.Run(ctx, server.Params{
		Name:           "listmgmt",
		PortFromConfig: func(cfg *config.Config) int { return cfg.ListMgmt.HTTPPort },
		Setup:          setup,
	}, nil)
}
