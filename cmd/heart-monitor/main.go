package main

import "github.com/vportnov/heart-monitor/cmd/heart-monitor/cmd"

func main() {
	cmd.Execute()
}
