package main

import (
	"os"

	"github.com/simplyjuanc/zk-rag-webapp/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
