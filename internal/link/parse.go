package link

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ParseLink classifies a single trimmed candidate line by scheme prefix
// and runs the matching parser. Unrecognized prefixes and any dialect
// failure come back as an error; the caller drops the line and moves on.
func ParseLink(s string) (*Config, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "vmess://"):
		return parseVMess(s)
	case strings.HasPrefix(s, "ss://"):
		return parseShadowSocks(s)
	case strings.HasPrefix(s, "trojan://"):
		return parseTrojanVless(s, KindTrojan)
	case strings.HasPrefix(s, "vless://"):
		return parseTrojanVless(s, KindVless)
	case strings.HasPrefix(s, "socks"):
		return parseSocksHTTP(s, KindSocks)
	case strings.HasPrefix(s, "http://"), strings.HasPrefix(s, "https://"):
		return parseSocksHTTP(s, KindHTTP)
	}
	return nil, fmt.Errorf("unrecognized link prefix")
}

// legacyVMess is the v2rayN base64-JSON payload.
type legacyVMess struct {
	ID   string     `json:"id"`
	Add  string     `json:"add"`
	Port flexInt    `json:"port"`
	Ps   string     `json:"ps"`
	Aid  flexInt    `json:"aid"`
	Host flexString `json:"host"`
	Path flexString `json:"path"`
	SNI  flexString `json:"sni"`
	Net  string     `json:"net"`
	TLS  flexString `json:"tls"`
}

func parseVMess(s string) (*Config, error) {
	c := &Config{Kind: KindVMess, Security: "auto", Network: "tcp"}

	// v2rayN dialect: the payload after the scheme is a base64 JSON blob.
	// When the payload decodes, this dialect is authoritative: malformed
	// JSON fails the line instead of falling through to the URI form.
	if decoded := DecodeBase64IfValid(SubstrAfter(s, "vmess://"), StdAlphabet); decoded != "" {
		var v legacyVMess
		if err := json.Unmarshal([]byte(decoded), &v); err != nil {
			return nil, fmt.Errorf("vmess json payload: %w", err)
		}

		c.UUID = v.ID
		c.Server = v.Add
		c.Port = int(v.Port)
		c.Name = v.Ps
		c.AlterID = int(v.Aid)
		c.Host = string(v.Host)
		c.Path = string(v.Path)
		c.SNI = string(v.SNI)
		c.TLS = string(v.TLS)
		if v.Net != "" {
			c.Network = v.Net
		}

		if !c.Valid() {
			return nil, fmt.Errorf("vmess link missing uuid or server")
		}
		return c, nil
	}

	// Standard URI dialect.
	u, err := url.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("vmess uri: %w", err)
	}

	c.Name = u.Fragment
	c.Server = u.Hostname()
	c.Port, _ = strconv.Atoi(u.Port())
	c.UUID = u.User.Username()

	q := u.Query()
	c.Security = queryValue(q, "encryption", "auto")
	c.Network = queryValue(q, "type", "tcp")
	c.TLS = queryValue(q, "security", "")
	c.SNI = queryValue(q, "sni", "")
	if c.Network == "ws" {
		c.Path = queryValue(q, "path", "")
		c.Host = queryValue(q, "host", "")
	}

	if !c.Valid() {
		return nil, fmt.Errorf("vmess link missing uuid or server")
	}
	return c, nil
}

func parseShadowSocks(s string) (*Config, error) {
	c := &Config{Kind: KindShadowSocks}

	if strings.Contains(SubstrBefore(s, "#"), "@") {
		// SIP002: ss://userinfo@host:port#name, where userinfo is either
		// method:password or url-safe base64 of the same.
		u, err := url.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("shadowsocks uri: %w", err)
		}

		c.Name = u.Fragment
		c.Server = u.Hostname()
		c.Port, _ = strconv.Atoi(u.Port())

		if password, ok := u.User.Password(); ok {
			c.Method = u.User.Username()
			c.Password = password
		} else {
			decoded := DecodeBase64IfValid(u.User.Username(), URLAlphabet)
			if decoded == "" {
				return nil, fmt.Errorf("shadowsocks userinfo is not base64")
			}
			c.Method = SubstrBefore(decoded, ":")
			c.Password = SubstrAfter(decoded, ":")
		}
	} else {
		// v2rayN dialect: everything between the scheme and the fragment
		// is base64 of method:password@host:port.
		decoded := DecodeBase64IfValid(SubstrBefore(SubstrAfter(s, "://"), "#"), URLAlphabet)
		if decoded == "" {
			return nil, fmt.Errorf("shadowsocks payload is not base64")
		}

		u, err := url.Parse("https://" + decoded)
		if err != nil {
			return nil, fmt.Errorf("shadowsocks payload: %w", err)
		}

		c.Server = u.Hostname()
		c.Port, _ = strconv.Atoi(u.Port())
		c.Method = u.User.Username()
		c.Password, _ = u.User.Password()
		if strings.Contains(s, "#") {
			c.Name = SubstrAfter(s, "#")
		}
	}

	if !c.Valid() {
		return nil, fmt.Errorf("shadowsocks link missing server or credentials")
	}
	return c, nil
}

func parseTrojanVless(s string, kind Kind) (*Config, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("%s uri: %w", kind, err)
	}

	c := &Config{
		Kind:     kind,
		Name:     u.Fragment,
		Server:   u.Hostname(),
		Password: u.User.Username(),
	}
	c.Port, _ = strconv.Atoi(u.Port())

	q := u.Query()
	c.Network = queryValue(q, "type", "tcp")
	c.TLS = queryValue(q, "security", "")
	c.SNI = queryValue(q, "sni", "")

	switch c.Network {
	case "ws":
		c.Path = queryValue(q, "path", "")
		c.Host = queryValue(q, "host", "")
	case "grpc":
		// gRPC transport carries the service name where ws carries a path.
		c.Path = queryValue(q, "serviceName", "")
	}

	if kind == KindVless {
		c.Flow = queryValue(q, "flow", "")
	}

	if !c.Valid() {
		return nil, fmt.Errorf("%s link missing password or server", kind)
	}
	return c, nil
}

func parseSocksHTTP(s string, kind Kind) (*Config, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("%s uri: %w", kind, err)
	}

	c := &Config{
		Kind:   kind,
		Name:   u.Fragment,
		Server: u.Hostname(),
	}

	if portStr := u.Port(); portStr != "" {
		c.Port, _ = strconv.Atoi(portStr)
	} else if kind == KindHTTP {
		c.Port = 443
	} else {
		c.Port = 1080
	}

	if u.User != nil {
		c.Username = u.User.Username()
		c.Password, _ = u.User.Password()
	}

	// v2rayN combined-credential form: base64(user:pass) as the username.
	if c.Password == "" && c.Username != "" {
		if decoded := DecodeBase64IfValid(c.Username, StdAlphabet); decoded != "" {
			c.Username = SubstrBefore(decoded, ":")
			c.Password = SubstrAfter(decoded, ":")
		}
	}

	if !c.Valid() {
		return nil, fmt.Errorf("%s link missing server", kind)
	}
	return c, nil
}
