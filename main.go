package main

import "github.com/KaramelBytes/reportdesk/cmd"

func main() {
	cmd.Execute()
}
