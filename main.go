package main

import "github.com/lucentbytes/insightloom-cli/cmd"

func main() {
	cmd.Execute()
}
