package main

import "github.com/gatherly-app/server/cmd/server/cmd"

func main() {
	cmd.Execute()
}
