package main

import "github.com/vietddude/warroom/internal/cli"

func main() {
	cli.Execute()
}
