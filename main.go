package main

import "devpet/cmd"

func main() {
	cmd.Execute()
}
