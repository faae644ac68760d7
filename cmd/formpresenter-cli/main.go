package main

import (
	"log"
	"os"
)

var version = "dev"

func main() {
	root := newRootCmd(os.Stdout)
	if err := root.Execute(); err != nil {
		log.Fatalf("formpresenter: %v", err)
	}
}
