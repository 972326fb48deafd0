package main

import "github.com/sigil-dev/sigil/cmd"

func main() {
	cmd.Execute()
}
