package main

import "github.com/dnl-fm/litebase/cmd"

func main() {
	cmd.Execute()
}
