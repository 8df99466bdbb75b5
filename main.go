package main

import "github.com/theirongolddev/mcro/cmd"

func main() {
	cmd.Execute()
}
