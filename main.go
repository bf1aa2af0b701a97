package main

import "github.com/cmmoran/argen/cmd"

func main() {
	cmd.Execute()
}
