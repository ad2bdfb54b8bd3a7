package main

import "showtime-manager/cmd"

func main() {
	cmd.Execute()
}
