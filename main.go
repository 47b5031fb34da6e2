package main

// main is a tiny entrypoint that delegates configuration and process startup
// to Run() implemented in server.go. Keeping this file minimal keeps the
// master/worker split readable in one place.
func main() {
	Run()
}
