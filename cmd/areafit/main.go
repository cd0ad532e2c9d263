// areafit — rectangular area-fitting CLI
//
// Packs a list of rectangular areas into one or more output images using a
// branch-and-bound guillotine search, then prints or exports the layout.
//
// Build:
//
//	go build -o areafit ./cmd/areafit
//
// Version information can be injected at build time:
//
//	go build -ldflags "-X main.version=v1.0.0 -X main.commit=$(git rev-parse --short HEAD)" ./cmd/areafit
package main

import (
	"os"

	"github.com/avaneev/areafitter/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.SetVersion(version, commit, date)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
