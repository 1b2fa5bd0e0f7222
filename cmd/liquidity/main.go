package main

import "github.com/pashabitz/liquidity/cmd/liquidity/commands"

func main() {
	commands.Execute()
}
