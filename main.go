package main

import "github.com/jsphweid/dormbell/cmd"

func main() {
	cmd.Execute()
}
