package main

import "github.com/KaramelBytes/contractboard-cli/cmd"

func main() {
	cmd.Execute()
}
