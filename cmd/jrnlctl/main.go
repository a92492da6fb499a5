package main

import "github.com/ashgrove/enqjrnl/cmd/jrnlctl/cmd"

func main() {
	cmd.Execute()
}
