// Command blendctl loads an inventory and a blend request, runs the
// optimizer engine, and renders the resulting solutions.
package main

func main() {
	Execute()
}
