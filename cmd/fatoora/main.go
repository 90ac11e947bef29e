package main

import "fatoora/internal/cli"

func main() {
	cli.Execute()
}
