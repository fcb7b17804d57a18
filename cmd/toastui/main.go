// Package main is the toastui command-line entrypoint.
package main

func main() {
	Execute()
}
