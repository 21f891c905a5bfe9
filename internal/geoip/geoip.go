// Copyright (c) 2026 Newsdesk Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package geoip provides IP-to-country lookup using a MaxMind
// GeoLite2-Country database. Lookups degrade gracefully when no
// database is configured.
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
	blocks := []string{
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
		"fc00::/7",  // IPv6 unique local
		"fe80::/10", // IPv6 link-local
	}
	for _, block := range blocks {
		_, cidr, err := net.ParseCIDR(block)
		if err == nil {
			privateCIDRs = append(privateCIDRs, cidr)
		}
	}
}

// Lookup resolves IP addresses to ISO country codes.
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

// NewLookup creates a Lookup. If dbPath is empty, lookups are disabled
// and always return the empty string.
func NewLookup(dbPath string) (*Lookup, error) {
	g := &Lookup{dbPath: dbPath}
	if dbPath == "" {
		return g, nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.loadDatabase(); err != nil {
		return g, err
	}
	return g, nil
}

// loadDatabase loads or reloads the MaxMind database. Caller must hold
// the write lock.
func (g *Lookup) loadDatabase() error {
	info, err := os.Stat(g.dbPath)
	if err != nil {
		g.enabled = false
		if os.IsNotExist(err) {
			return fmt.Errorf("GeoIP database not found: %s", g.dbPath)
		}
		return fmt.Errorf("GeoIP database stat error: %w", err)
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
		return fmt.Errorf("opening GeoIP database: %w", err)
	}

	g.db = db
	g.dbModTime = info.ModTime()
	g.enabled = true
	return nil
}

// Reload reloads the database if the file changed on disk. Safe to call
// periodically.
func (g *Lookup) Reload() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.dbPath == "" {
		return nil
	}
	return g.loadDatabase()
}

// Country returns the 2-letter ISO country code for an IP address,
// "LOCAL" for private and loopback addresses, or the empty string when
// the address is invalid or the database is unavailable.
func (g *Lookup) Country(ip string) string {
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

// IsEnabled reports whether a database is loaded.
func (g *Lookup) IsEnabled() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.enabled
}

// Close closes the underlying database.
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

func isPrivateIP(ip net.IP) bool {
	for _, cidr := range privateCIDRs {
		if cidr.Contains(ip) {
			return true
		}
	}
	return false
}
