package geoip

import (
	"fmt"
	"net"
	"sync"

	"github.com/oschwald/geoip2-golang"
)

var (
	countryReader *geoip2.Reader
	once          sync.Once
	initErr       error
)

// Init loads the MMDB country database. Safe to call more than once,
// only the first path wins.
func Init(countryPath string) error {
	once.Do(func() {
		if countryPath == "" {
			return
		}
		var err error
		countryReader, err = geoip2.Open(countryPath)
		if err != nil {
			initErr = fmt.Errorf("failed to open country DB at %s: %w", countryPath, err)
		}
	})
	return initErr
}

// Country returns the ISO code for an IP, or "XX" when the database is
// missing or the IP is not covered.
func Country(ipStr string) string {
	if countryReader == nil {
		return "XX"
	}
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return "XX"
	}
	if c, err := countryReader.Country(ip); err == nil && c.Country.IsoCode != "" {
		return c.Country.IsoCode
	}
	return "XX"
}

// CountryOfHost resolves a hostname first when needed. Server addresses
// in collected links are a mix of raw IPs and domains.
func CountryOfHost(host string) string {
	if net.ParseIP(host) != nil {
		return Country(host)
	}
	ips, err := net.LookupIP(host)
	if err != nil || len(ips) == 0 {
		return "XX"
	}
	return Country(ips[0].String())
}

func Close() {
	if countryReader != nil {
		countryReader.Close()
	}
}
