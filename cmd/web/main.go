package main

import "invently_backend/internal/app"

func main() {
	app.Run()
}
