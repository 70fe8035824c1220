package main

import "github.com/jackchuka/gp/cmd"

func main() {
	cmd.Execute()
}
