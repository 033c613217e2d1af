package main

import "github.com/emiliopalmerini/crodash/internal/cli"

func main() {
	cli.Execute()
}
