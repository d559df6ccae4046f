package main

import "gowakeonlan/internal/cli"

func main() {
	cli.Execute()
}
