package main

import "github.com/notargets/gocsem/cmd"

func main() {
	cmd.Execute()
}
