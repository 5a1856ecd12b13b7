package main

import "github.com/charliek/logdash/internal/cli"

func main() {
	cli.Execute()
}
