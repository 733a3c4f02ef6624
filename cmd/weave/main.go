// Package main provides the weave CLI.
package main

import "github.com/mesh-intelligence/weave/internal/cli"

func main() {
	cli.Execute()
}
