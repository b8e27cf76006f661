package main

import "github.com/gtkgen/girgen/cmd"

func main() {
	cmd.Execute()
}
