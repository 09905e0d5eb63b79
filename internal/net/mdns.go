package net

import (
	"fmt"
	"log"
	"net"
	"time"

	"github.com/hashicorp/mdns"
)

const serviceType = "_sketchboard._tcp"

// Board is a shared board found on the local network.
type Board struct {
	Name string
	Addr string // host:port
}

// Advertise publishes a hosted board under name on port. Shut the returned
// server down when the host stops.
func Advertise(name string, port int) (*mdns.Server, error) {
	service, err := mdns.NewMDNSService(
		name,
		serviceType,
		"", // .local
		"", // OS hostname
		port,
		[]net.IP{firstIPv4()},
		[]string{"SketchBoard"},
	)
	if err != nil {
		return nil, fmt.Errorf("create mDNS service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("start mDNS server: %w", err)
	}
	log.Printf("[HOST] advertising %q as %s on port %d", name, serviceType, port)
	return server, nil
}

// Browse lists the boards that answer within timeout.
func Browse(timeout time.Duration) ([]Board, error) {
	entries := make(chan *mdns.ServiceEntry, 8)
	done := make(chan []Board)
	go func() {
		var boards []Board
		seen := map[string]bool{}
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			addr := fmt.Sprintf("%s:%d", e.AddrV4.String(), e.Port)
			if seen[addr] {
				continue
			}
			seen[addr] = true
			boards = append(boards, Board{Name: e.Name, Addr: addr})
		}
		done <- boards
	}()

	params := mdns.DefaultParams(serviceType)
	params.Entries = entries
	params.Timeout = timeout
	err := mdns.Query(params)
	close(entries)
	boards := <-done
	if err != nil {
		return boards, fmt.Errorf("browse %s: %w", serviceType, err)
	}
	return boards, nil
}
