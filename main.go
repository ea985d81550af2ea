package main

import "github.com/wirabuild/construction-management/cmd"

func main() {
	cmd.Execute()
}
