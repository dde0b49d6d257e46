package main

import "github.com/modelprov/lineage/cmd/lineage/commands"

func main() {
	commands.Execute()
}
