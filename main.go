package main

import (
	"github.com/fillow/wap-core/cmd"
)

func main() {
	cmd.Execute()
}
