package main

import "github.com/asmundg/shopr/cmd"

func main() {
	cmd.Execute()
}
