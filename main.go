package main

import "github.com/notargets/pafem/cmd"

func main() {
	cmd.Execute()
}
