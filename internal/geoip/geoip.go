// Copyright (c) 2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package geoip resolves client IPs to country codes for the auth event log,
// using a MaxMind GeoLite2-Country database.
package geoip

import (
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/oschwald/maxminddb-golang"
)

// privateCIDRs contains parsed CIDR blocks for private IP ranges.
var privateCIDRs []*net.IPNet

func init() {
	privateBlocks := []string{
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
		"fc00::/7",  // IPv6 unique local
		"fe80::/10", // IPv6 link-local
	}

	for _, block := range privateBlocks {
		_, cidr, err := net.ParseCIDR(block)
		if err == nil {
			privateCIDRs = append(privateCIDRs, cidr)
		}
	}
}

// Lookup handles IP to country lookup. The zero value is disabled; lookups
// then return the empty string, so callers never need a nil check.
type Lookup struct {
	db        *maxminddb.Reader
	dbPath    string
	dbModTime time.Time
	enabled   bool
	mu        sync.RWMutex
}

// geoRecord matches the GeoLite2-Country database structure.
type geoRecord struct {
	Country struct {
		ISOCode string `maxminddb:"iso_code"`
	} `maxminddb:"country"`
}

// NewLookup creates a new GeoIP lookup instance.
func NewLookup() *Lookup {
	return &Lookup{}
}

// Init loads the database from the given path. An empty path leaves lookups
// disabled (graceful degradation).
func (g *Lookup) Init(dbPath string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.dbPath = dbPath
	if dbPath == "" {
		g.enabled = false
		return nil
	}

	return g.loadDatabase()
}

// loadDatabase loads or reloads the MaxMind database.
// Caller must hold g.mu write lock.
func (g *Lookup) loadDatabase() error {
	info, err := os.Stat(g.dbPath)
	if err != nil {
		g.enabled = false
		if os.IsNotExist(err) {
			return fmt.Errorf("geoip database not found: %s", g.dbPath)
		}
		return fmt.Errorf("geoip database stat: %w", err)
	}

	// Skip reload if not modified
	if g.db != nil && info.ModTime().Equal(g.dbModTime) {
		return nil
	}

	if g.db != nil {
		_ = g.db.Close()
		g.db = nil
	}

	db, err := maxminddb.Open(g.dbPath)
	if err != nil {
		g.enabled = false
		return fmt.Errorf("opening geoip database: %w", err)
	}

	g.db = db
	g.dbModTime = info.ModTime()
	g.enabled = true

	return nil
}

// Reload reloads the database if the file has been updated on disk.
// Safe to call periodically from a maintenance job.
func (g *Lookup) Reload() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.dbPath == "" {
		return nil
	}

	return g.loadDatabase()
}

// LookupCountry returns the 2-letter ISO country code for an IP address.
// Private and loopback addresses map to "LOCAL"; unknown, invalid, or
// disabled cases return the empty string.
func (g *Lookup) LookupCountry(ip string) string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	parsedIP := net.ParseIP(ip)
	if parsedIP == nil {
		return ""
	}

	if parsedIP.IsLoopback() || isPrivateIP(parsedIP) {
		return "LOCAL"
	}

	if !g.enabled || g.db == nil {
		return ""
	}

	var record geoRecord
	if err := g.db.Lookup(parsedIP, &record); err != nil {
		return ""
	}

	return record.Country.ISOCode
}

// IsEnabled returns whether GeoIP lookups are available.
func (g *Lookup) IsEnabled() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.enabled
}

// Close closes the GeoIP database.
func (g *Lookup) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.db != nil {
		err := g.db.Close()
		g.db = nil
		g.enabled = false
		return err
	}
	return nil
}

// isPrivateIP checks if an IP address is in a private range.
func isPrivateIP(ip net.IP) bool {
	for _, cidr := range privateCIDRs {
		if cidr.Contains(ip) {
			return true
		}
	}
	return false
}
