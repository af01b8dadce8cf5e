package main

import "github.com/adanyl0v/tasklist/internal/app"

func main() {
	app.InitDefaultLogger()
	app.MustReadEnv()
	app.MustInitApplicationLogger()

	app.MustOpenKeyValueStore()
	defer app.CloseKeyValueStore()

	app.MustInitTaskList()
	defer app.CloseTaskList()

	app.MustListenAndServeHTTP()
}
