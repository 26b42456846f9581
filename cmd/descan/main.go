package main

import "github.com/MeKo-Tech/descan/cmd/descan/cmd"

func main() {
	cmd.Execute()
}
