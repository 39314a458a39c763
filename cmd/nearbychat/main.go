package main

import "github.com/diogo/nearbychat/internal/commands"

func main() {
	commands.Execute()
}
