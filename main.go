package main

import "orginsights/cmd"

func main() {
	cmd.Execute()
}
