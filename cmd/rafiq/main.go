package main

import "github.com/sevencode7/rafiq/cmd/rafiq/cmd"

func main() {
	cmd.Execute()
}
