package main

import (
	"github.com/boot85/idb/internal/cli"
)

func main() {
	cli.Execute()
}
