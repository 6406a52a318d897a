package main

import "github.com/vportnov/heart-monitor/cmd/heart-watch/cmd"

func main() {
	cmd.Execute()
}
