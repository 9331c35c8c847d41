package main

import "ticketclassifier/cmd"

func main() {
	cmd.Execute()
}
