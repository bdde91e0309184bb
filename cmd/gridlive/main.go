package main

import (
	"github.com/gridlive/gridlive/internal/cli"
)

func main() {
	cli.Execute()
}
