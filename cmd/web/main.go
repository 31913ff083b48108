package main

import "buziak_backend/internal/app"

func main() {
	app.Run()
}
