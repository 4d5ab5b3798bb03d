package main

import "github.com/evidentia/evidence-store/cmd"

func main() {
	cmd.Execute()
}
