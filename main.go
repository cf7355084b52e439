package main

import "cparser/cmd"

func main() {
	cmd.Execute()
}
