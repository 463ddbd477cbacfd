package main

import "github.com/developeraldawla/project-n8n/cmd"

func main() {
	cmd.Execute()
}
