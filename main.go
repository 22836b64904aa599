package main

import "github.com/untodesu/binarray/cmd"

// main is the entry point of the binarray CLI application.
// It executes the root command which handles argument parsing and generation.
func main() {
	cmd.Execute()
}
