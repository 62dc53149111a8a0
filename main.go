package main

import "github.com/italia/vocabtools/commands"

func main() {
	commands.Execute()
}
