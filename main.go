package main

import "github.com/samhoang/lockshard/cmd"

func main() {
	cmd.Execute()
}
