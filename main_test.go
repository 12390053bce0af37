package main

import (
	"net"
	"net/http"
	"os"
	"syscall"
	"testing"
	"time"
)

func TestServeReturnsListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	srv := &http.Server{Addr: ln.Addr().String(), Handler: http.NotFoundHandler()}
	done := make(chan error, 1)
	go func() { done <- serve(srv, make(chan os.Signal)) }()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("serve on a taken port returned nil")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return on listen failure")
	}
}

func TestServeShutsDownOnSignal(t *testing.T) {
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}
	quit := make(chan os.Signal, 1)
	done := make(chan error, 1)
	go func() { done <- serve(srv, quit) }()

	quit <- syscall.SIGTERM
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop after the signal")
	}
}
