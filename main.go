package main

import "asset-extractor/cmd"

func main() {
	cmd.Execute()
}
