// Package main is the entry point for the toastuid desktop daemon.
package main

func main() {
	Execute()
}
