package main

import "github.com/alexhub/hub-installer/cmd/hub-installer/cmd"

func main() {
	cmd.Execute()
}
