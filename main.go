package main

import "github.com/pagefit/pagefit/cmd"

func main() {
	cmd.Execute()
}
