package main

import (
	"os"

	sgv "github.com/fourjr/sg-vaccines"
)

func main() {
	sgv.Run(os.Args)
}
