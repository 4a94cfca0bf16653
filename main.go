package main

import "github.com/strrl/triage/internal/cmd"

func main() {
	cmd.Execute()
}
