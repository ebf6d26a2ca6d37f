package main

import "github.com/atticdev/attic/cmd"

func main() {
	cmd.Execute()
}
