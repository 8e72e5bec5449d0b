// cmd/reminder-service/main.go
package main

func main() {
	Execute()
}
