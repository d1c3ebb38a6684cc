package main

import "github.com/chukul/iamaudit/cmd"

func main() {
	cmd.Execute()
}
