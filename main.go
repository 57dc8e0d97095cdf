package main

import "github.com/iksnae/workflow-recorder/cmd"

func main() {
	cmd.Execute()
}
