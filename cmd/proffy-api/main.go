package main

import (
	"fmt"
	"os"

	_ "github.com/proffy-io/proffy-api/api/swagger"
)

// @title Proffy API
// @version 1.0.0
// @description Tutor class listings, availability search and connection counting.
// @BasePath /
// @schemes http

func main() {
	if err := newApp().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
