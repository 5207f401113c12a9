package main

import "github.com/HarmonLabs/titlescope/cmd"

func main() {
	cmd.Execute()
}
