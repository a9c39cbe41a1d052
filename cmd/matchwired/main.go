// matchwired is the TCP front-end for the matching engine: it accepts
// connections, assigns each one a session, and feeds inbound bytes to the
// engine through a per-connection pipeline.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/archwave/matchwire/engine"
)

// connWriter adapts a net.Conn to engine.FrameWriter. Writes are
// best-effort and serialized, since the engine's report sink may be called
// from a different connection's goroutine than the one owning this socket.
type connWriter struct {
	mu   sync.Mutex
	conn net.Conn
}

func (w *connWriter) WriteFrame(frame []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, err := w.conn.Write(frame)
	return err
}

func handleConn(conn net.Conn, e *engine.Engine, registry *engine.Registry) {
	defer conn.Close()

	writer := &connWriter{conn: conn}
	session := registry.NewSession(writer)
	defer registry.Unregister(session)

	log.Printf("matchwired: session %d connected from %s", session, conn.RemoteAddr())

	pipeline := engine.NewConnectionPipeline(session, e)
	if err := pipeline.OnBytesReadable(conn); err != nil {
		log.Printf("matchwired: session %d closed: %v", session, err)
	}
}

// serve runs the accept loop until ln is closed, either by a fatal accept
// error or by the graceful-shutdown signal handler closing ln out from under
// it. A close triggered by the latter is reported back to the caller as nil,
// not as an error.
func serve(ln net.Listener, verbose bool) error {
	log.Printf("matchwired: listening on %s", ln.Addr())

	registry := engine.NewRegistry()
	e := engine.New(registry)
	e.Verbose = verbose

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("matchwired: accept: %w", err)
		}
		go handleConn(conn, e, registry)
	}
}

// waitForShutdownSignal closes ln as soon as SIGINT or SIGTERM arrives,
// unblocking serve's Accept call so the process can exit cleanly.
func waitForShutdownSignal(ln net.Listener) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("matchwired: received %s, shutting down", sig)
		if err := ln.Close(); err != nil {
			log.Printf("matchwired: closing listener: %v", err)
		}
	}()
}

func main() {
	addr := flag.String("addr", ":9999", "TCP address to listen on")
	verbose := flag.Bool("verbose", false, "Log per-message diagnostics (heartbeats)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "matchwired - single-venue limit order matching engine\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	ln, err := net.Listen("tcp", *addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: matchwired: listen: %v\n", err)
		os.Exit(1)
	}
	defer ln.Close()

	waitForShutdownSignal(ln)

	if err := serve(ln, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log.Println("matchwired: stopped")
}
