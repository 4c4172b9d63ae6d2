package link

import (
	"encoding/json"
	"fmt"
)

// Kind identifies the proxy protocol of a parsed record. The set is
// closed: every switch over Kind in this package is exhaustive.
type Kind string

const (
	KindVMess       Kind = "vmess"
	KindShadowSocks Kind = "shadowsocks"
	KindTrojan      Kind = "trojan"
	KindVless       Kind = "vless"
	KindSocks       Kind = "socks"
	KindHTTP        Kind = "http"
)

// Config is a normalized proxy record produced by the parsers. It is a
// tagged union over the four parser variants: which of the optional
// field groups is meaningful depends on Kind. Records are immutable
// once returned by a parser; Source is the only field set afterwards,
// by the caller that knows the originating subscription.
type Config struct {
	Kind   Kind
	Name   string
	Server string
	Port   int
	Source string

	// VMess
	UUID     string
	AlterID  int
	Security string // cipher, default "auto"

	// ShadowSocks
	Method string

	// Trojan / VLESS / ShadowSocks / Socks / HTTP credential
	Password string
	Flow     string // vless only

	// Transport shared by vmess/trojan/vless
	Network string // tcp, ws, grpc
	TLS     string // vmess "tls" field / trojan-vless "security" param
	SNI     string
	Host    string
	Path    string // ws path or grpc service name, per Network

	// Socks / HTTP
	Username string
}

// Valid reports whether the record satisfies its variant's required-field
// invariant. Parsers never return a Config that fails this check.
func (c *Config) Valid() bool {
	if c.Server == "" {
		return false
	}
	switch c.Kind {
	case KindVMess:
		return c.UUID != ""
	case KindShadowSocks:
		return c.Method != "" && c.Password != ""
	case KindTrojan, KindVless:
		return c.Password != ""
	case KindSocks, KindHTTP:
		return true
	}
	return false
}

type vmessJSON struct {
	Type     string `json:"type"`
	Name     string `json:"name"`
	Server   string `json:"server"`
	Port     int    `json:"port"`
	UUID     string `json:"uuid"`
	AlterID  int    `json:"alterId"`
	Cipher   string `json:"cipher"`
	Network  string `json:"network"`
	TLS      string `json:"tls,omitempty"`
	SNI      string `json:"sni,omitempty"`
	Host     string `json:"host,omitempty"`
	Path     string `json:"path,omitempty"`
	Source   string `json:"source,omitempty"`
}

type shadowSocksJSON struct {
	Type     string `json:"type"`
	Name     string `json:"name"`
	Server   string `json:"server"`
	Port     int    `json:"port"`
	Method   string `json:"method"`
	Password string `json:"password"`
	Source   string `json:"source,omitempty"`
}

type trojanVlessJSON struct {
	Type     string `json:"type"`
	Name     string `json:"name"`
	Server   string `json:"server"`
	Port     int    `json:"port"`
	Password string `json:"password"`
	Network  string `json:"network,omitempty"`
	Security string `json:"security,omitempty"`
	SNI      string `json:"sni,omitempty"`
	Host     string `json:"host,omitempty"`
	Path     string `json:"path,omitempty"`
	Flow     string `json:"flow,omitempty"`
	Source   string `json:"source,omitempty"`
}

type socksHTTPJSON struct {
	Type     string `json:"type"`
	Name     string `json:"name"`
	Server   string `json:"server"`
	Port     int    `json:"port"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	Source   string `json:"source,omitempty"`
}

// MarshalJSON emits the per-variant object shape: required fields are
// always present, optional fields are omitted when empty.
func (c *Config) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case KindVMess:
		return json.Marshal(vmessJSON{
			Type:    string(c.Kind),
			Name:    c.Name,
			Server:  c.Server,
			Port:    c.Port,
			UUID:    c.UUID,
			AlterID: c.AlterID,
			Cipher:  c.Security,
			Network: c.Network,
			TLS:     c.TLS,
			SNI:     c.SNI,
			Host:    c.Host,
			Path:    c.Path,
			Source:  c.Source,
		})
	case KindShadowSocks:
		return json.Marshal(shadowSocksJSON{
			Type:     string(c.Kind),
			Name:     c.Name,
			Server:   c.Server,
			Port:     c.Port,
			Method:   c.Method,
			Password: c.Password,
			Source:   c.Source,
		})
	case KindTrojan, KindVless:
		flow := ""
		if c.Kind == KindVless {
			flow = c.Flow
		}
		return json.Marshal(trojanVlessJSON{
			Type:     string(c.Kind),
			Name:     c.Name,
			Server:   c.Server,
			Port:     c.Port,
			Password: c.Password,
			Network:  c.Network,
			Security: c.TLS,
			SNI:      c.SNI,
			Host:     c.Host,
			Path:     c.Path,
			Flow:     flow,
			Source:   c.Source,
		})
	case KindSocks, KindHTTP:
		return json.Marshal(socksHTTPJSON{
			Type:     string(c.Kind),
			Name:     c.Name,
			Server:   c.Server,
			Port:     c.Port,
			Username: c.Username,
			Password: c.Password,
			Source:   c.Source,
		})
	}
	return nil, fmt.Errorf("unknown config kind %q", c.Kind)
}
