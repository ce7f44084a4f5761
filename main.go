// Package main is the entry point for the optametrics CLI tool, which parses
// Opta F24 match event feeds and computes per-category player metrics.
package main

import "github.com/pable/go-opta-metrics/cmd"

func main() {
	cmd.Execute()
}
