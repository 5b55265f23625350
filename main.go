package main

import "github.com/agentic-research/imfimport/cmd"

func main() {
	cmd.Execute()
}
