package main

import (
	"os"

	openragcmder "github.com/openragproject/openrag-go/cmd/openrag"
)

func main() {
	cmd := openragcmder.NewOpenRAGCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
