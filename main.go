package main

import "github.com/shubhamdhabu/trace-rescue/cmd"

func main() {
	cmd.Execute()
}
