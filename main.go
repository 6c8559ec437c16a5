package main

import "github.com/kozaktomas/koya-pay/cmd"

func main() {
	cmd.Execute()
}
