// Command confessctl inspects a Confess journal and the state it rebuilds.
package main

func main() {
	Execute()
}
