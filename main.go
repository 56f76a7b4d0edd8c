package main

import (
	"os"

	"github.com/salarkhan2003/OLTECH-AI/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
