package main

import "github.com/DanielAvdar/dev-kit-mcp-server/internal/cli"

func main() {
	cli.Execute()
}
