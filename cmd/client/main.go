package main

import (
	"github.com/imposteur-game/lobby-server/internal/cli"
)

func main() {
	cli.Execute()
}
