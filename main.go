package main

import (
	"os"

	"github.com/GoEstate-Admin/GoEstate-Admin/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
