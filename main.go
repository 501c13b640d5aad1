package main

import (
	"github.com/padraigk/jobradar/cmd"
)

func main() {
	cmd.Execute()
}
