package main

import (
	"github.com/schmitech/orbit-client-go/internal/ui/cli"
)

func main() {
	cli.Execute()
}
