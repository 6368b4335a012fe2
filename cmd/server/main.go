package main

import "nomina/internal/app/server"

func main() {
	server.Run()
}
