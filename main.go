// ./main.go
package main

import (
	"github.com/xkilldash9x/campus-nav/cmd"
)

// main is the entry point for the campus-nav application.
func main() {
	cmd.Execute()
}
