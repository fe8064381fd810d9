package main

import "carvalue/cmd"

func main() {
	cmd.Execute()
}
