package main

import (
	"os"

	"go.withmatt.com/paperdrop/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
