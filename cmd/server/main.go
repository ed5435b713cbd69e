package main

import (
	"os"

	"github.com/Lixing-Zhang/restaurant-pos/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
