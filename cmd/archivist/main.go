package main

import "github.com/kirillkom/pdf-archivist/internal/cli"

func main() {
	cli.Execute()
}
