package main

import (
	"github.com/Yufeng98/vg/cmd"
)

func main() {
	cmd.Execute() // initialize cobra commands
}
