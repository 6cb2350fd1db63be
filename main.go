package main

import "github.com/longkey1/leethint/cmd"

func main() {
	cmd.Execute()
}
