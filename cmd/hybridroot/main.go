// cmd/hybridroot/main.go
package main

import (
	"os"

	"github.com/njchilds90/hybridroot/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:], os.Stdout, os.Stderr))
}
