package main

import (
	"github.com/relware/relsync/cmd"
)

func main() {
	cmd.Execute()
}
