// Package main provides the entry point for the GlassBid measurement
// viewport.
package main

import "github.com/danielcuellar117/cgs-glassbid-mvp-sub000/cmd"

func main() {
	cmd.Execute()
}
