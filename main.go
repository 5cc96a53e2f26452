package main

import "github.com/nocturne-player/nocturne/cmd"

func main() {
	cmd.Execute()
}
