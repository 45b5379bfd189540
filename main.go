package main

import "github.com/diogo/deepchat/internal/commands"

func main() {
	commands.Execute()
}
