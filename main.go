package main

import "github.com/marenkov/sheaf/cmd"

func main() {
	cmd.Execute()
}
