package main

import "github.com/akerl/releasenotes/cmd"

func main() {
	cmd.Execute()
}
