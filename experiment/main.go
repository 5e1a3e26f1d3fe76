// Package main is a test sender that serves a raw Annex B H.264 file over
// TCP, paced at a fixed rate, for exercising llplay against a live socket.
package main

import (
	"fmt"
	"net"
	"os"
	"time"
)

const (
	listenAddr = "127.0.0.1:5000"
	sendFPS    = 30
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) < 2 {
		return fmt.Errorf("usage: %s <stream.h264>", os.Args[0])
	}

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		return fmt.Errorf("read stream file: %w", err)
	}

	units := splitAccessUnits(data)
	if len(units) == 0 {
		return fmt.Errorf("no start codes found in %s", os.Args[1])
	}
	fmt.Printf("Loaded %d access units from %s\n", len(units), os.Args[1])

	ln, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddr, err)
	}
	defer ln.Close()
	fmt.Printf("Waiting for a player on %s...\n", listenAddr)

	conn, err := ln.Accept()
	if err != nil {
		return err
	}
	defer conn.Close()
	if tc, ok := conn.(*net.TCPConn); ok {
		tc.SetNoDelay(true)
	}
	fmt.Printf("Player connected from %s, sending at %d fps\n", conn.RemoteAddr(), sendFPS)

	interval := time.Second / sendFPS
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for i, unit := range units {
		<-ticker.C
		if _, err := conn.Write(unit); err != nil {
			return fmt.Errorf("send unit %d: %w", i, err)
		}
	}

	fmt.Println("Stream finished")
	return nil
}

// splitAccessUnits cuts the byte stream at every slice NAL unit whose
// first_mb_in_slice is zero, or at AUD boundaries. Rough, but enough for
// a test feed.
func splitAccessUnits(data []byte) [][]byte {
	var cuts []int
	sawVCL := false
	i := 0
	for i < len(data)-4 {
		if data[i] != 0 || data[i+1] != 0 {
			i++
			continue
		}
		ds := 0
		if data[i+2] == 1 {
			ds = 3
		} else if data[i+2] == 0 && data[i+3] == 1 {
			ds = 4
		}
		if ds == 0 {
			i++
			continue
		}
		if i+ds >= len(data) {
			break
		}
		nalType := data[i+ds] & 0x1F
		starts := nalType == 9 || nalType == 7 || nalType == 8 ||
			((nalType == 1 || nalType == 5) && i+ds+1 < len(data) && data[i+ds+1]&0x80 != 0)
		if starts && sawVCL {
			cuts = append(cuts, i)
			sawVCL = false
		}
		if nalType == 1 || nalType == 5 {
			sawVCL = true
		}
		i += ds
	}

	var units [][]byte
	prev := 0
	for _, c := range cuts {
		units = append(units, data[prev:c])
		prev = c
	}
	units = append(units, data[prev:])
	return units
}
