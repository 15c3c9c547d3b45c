package main

import "github.com/futuremech/fmweb/cmd/fmweb/command"

func main() {
	command.Execute()
}
