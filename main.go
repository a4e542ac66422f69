package main

import "github.com/robertgumeny/rescomp/cmd"

func main() {
	cmd.Execute()
}
