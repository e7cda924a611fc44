package main

import "github.com/sensorlab/motesim/motesim/cmd"

func main() {
	cmd.Execute()
}
