// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"log"
	"net"
	"os"

	"github.com/ezrec/cpu16/server"
)

// getenv returns the environment value of key, or def if unset.
func getenv(key, def string) string {
	value, ok := os.LookupEnv(key)
	if !ok || len(value) == 0 {
		return def
	}
	return value
}

func main() {
	var host string
	var port string
	var path string
	var verbose bool

	flag.StringVar(&host, "host", getenv("CPU16_WS_HOST", "127.0.0.1"), "listen host")
	flag.StringVar(&port, "port", getenv("CPU16_WS_PORT", "8765"), "listen port")
	flag.StringVar(&path, "path", "/", "websocket path")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	srv := server.NewServer(path)
	srv.Verbose = verbose

	err := srv.ListenAndServe(net.JoinHostPort(host, port))
	if err != nil {
		log.Fatal(err)
	}
}
