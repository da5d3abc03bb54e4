package main

import "shelfscan/cmd"

func main() {
	cmd.Execute()
}
