package main

import "github.com/eslsoft/lingodrill/cmd"

func main() {
	cmd.Execute()
}
