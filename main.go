package main

import (
	"os"

	"github.com/bizdesk/bizdesk/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
