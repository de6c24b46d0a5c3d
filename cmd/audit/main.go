package main

import (
	"log"

	tool "lockdesk/internal/tools/audit"
)

func main() {
	if err := tool.NewRootCommand().Execute(); err != nil {
		log.Fatal(err)
	}
}
