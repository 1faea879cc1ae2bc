// Command coinshelf tracks a silver coin collection from the terminal.
package main

import "github.com/mesh-intelligence/coinshelf/internal/cli"

func main() {
	cli.Execute()
}
