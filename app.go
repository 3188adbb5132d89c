package main

import "github.com/gitfeed/gitfeed/cmd"

func main() {
	cmd.Run()
}
