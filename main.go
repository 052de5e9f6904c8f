package main

import "github.com/nxthub/influencer-ops/cmd"

func main() {
	cmd.Execute()
}
