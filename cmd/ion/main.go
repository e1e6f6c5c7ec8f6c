package main

import "github.com/panyam/ion/cmd/ion/commands"

func main() {
	commands.Execute()
}
