package main

import (
	"github.com/mcoot/snatchgame-go/internal/cli"
)

func main() {
	cli.Execute()
}
