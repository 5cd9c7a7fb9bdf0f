package main

import "github.com/mcoot/neontetris/internal/cli"

func main() {
	cli.Execute()
}
