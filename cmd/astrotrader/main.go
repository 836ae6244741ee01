package main

import (
	"github.com/rewired-gh/astrotrader/internal/logger"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		logger.Fatal("%v", err)
	}
}
