// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"errors"
	"net"
	"net/http"

	"codeberg.org/ambagabon/portail/config"
)

var (
	errMissingClientIP = errors.New("missing client IP")
	errInvalidIPFormat = errors.New("invalid IP format")
)

// ClientInfo is the address and network of the client behind one request.
type ClientInfo struct {
	ip      net.IP
	network net.IPNet
}

// newClientInfo resolves the IP and network of the client of r.
func newClientInfo(r *http.Request) (*ClientInfo, error) {
	realIP := getClientIP(r)
	if realIP == "" {
		return nil, errMissingClientIP
	}

	parsedIP := net.ParseIP(realIP)
	if parsedIP == nil {
		return nil, errInvalidIPFormat
	}

	network := getNetwork(parsedIP, config.Global.Limiter.IPv4Prefix, config.Global.Limiter.IPv6Prefix)

	return &ClientInfo{
		ip:      parsedIP,
		network: *network,
	}, nil
}

// checkIPLists checks if the client's IP is on the pass or block list.
//
// Returns (allowed, blocked) as a tuple - at most one can be true.
func (c *ClientInfo) checkIPLists() (bool, bool) {
	if ipMatchesList(c.ip, config.Global.Limiter.PassIPs) {
		return true, false
	}

	if ipMatchesList(c.ip, config.Global.Limiter.BlockIPs) {
		return false, true
	}

	return false, false
}

// isLocal returns true for loopback and link-local addresses.
func (c *ClientInfo) isLocal() bool {
	return c.ip.IsLoopback() || c.ip.IsLinkLocalUnicast()
}
