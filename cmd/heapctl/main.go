// Command heapctl drives a heapkit arena from the command line.
package main

func main() {
	execute()
}
