package main

import (
	"os"

	"github.com/lazharichir/holdem/cmd"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := cmd.Execute(); err != nil {
		logrus.WithError(err).Error("holdem failed")
		os.Exit(1)
	}
}
