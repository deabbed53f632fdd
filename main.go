package main

import "github.com/beanboi7/chyp8/cmd"

func main() {
	cmd.Execute()
}
