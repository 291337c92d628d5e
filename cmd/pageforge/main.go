package main

import "pageforge/internal/cmd"

func main() {
	cmd.Execute()
}
