package main

import "github.com/prolifichq/prolific/internal/cli"

func main() {
	cli.Execute()
}
