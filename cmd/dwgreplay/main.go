// Command dwgreplay replays YAML drawing fixtures through the draw
// dispatcher and reports the geometry records it produces.
package main

func main() {
	Execute()
}
