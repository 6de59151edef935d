package main

import "github.com/richardsabow/airports-backend/cmd"

func main() {
	cmd.Execute()
}
