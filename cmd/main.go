package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/kjdev/raid6store/internal/cli"
	"github.com/kjdev/raid6store/internal/rslog"
)

func main() {
	if err := rslog.Init(rslog.LevelInfo); err != nil {
		logrus.Fatalf("Error initializing logger: %v", err)
	}

	if err := cli.ExecuteCmd(); err != nil {
		logrus.Errorf("Error executing command: %v", err)
		os.Exit(1)
	}
}
