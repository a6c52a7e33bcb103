// Command cairn is the habit tracking storage and sync CLI.
package main

import "github.com/cairnapp/cairn/internal/cli"

func main() {
	cli.Execute()
}
