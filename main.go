package main

import "github.com/haimv/skilldock/cmd"

func main() {
	cmd.Execute()
}
