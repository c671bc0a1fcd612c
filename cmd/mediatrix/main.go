package main

import "github.com/terraskye/mediator/internal/cli"

func main() {
	cli.Execute()
}
