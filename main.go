// Package main is the entry point for the fives CLI tool, which imports
// five-a-side match history and predicts outcomes for proposed line-ups.
package main

import "github.com/pable/go-fives-metrics/cmd"

func main() {
	cmd.Execute()
}
