package main

import (
	"github.com/mlebeur/spectrassembler/cmd"
)

func main() {
	cmd.Execute() // initialize cobra commands
}
