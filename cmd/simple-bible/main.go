package main

import "simple-bible/internal/cli"

func main() {
	cli.Execute()
}
