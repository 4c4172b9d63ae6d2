package link

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
)

// ToURI re-encodes a record into a shareable link. VMess uses the
// v2rayN base64-JSON form and ShadowSocks SIP002; the remaining kinds
// share the generic URI layout. The result round-trips through
// ParseLink to an equivalent record.
func (c *Config) ToURI() string {
	switch c.Kind {
	case KindVMess:
		return c.toVMessURI()
	case KindShadowSocks:
		return c.toShadowSocksURI()
	default:
		return c.toGenericURI()
	}
}

func (c *Config) toVMessURI() string {
	payload := map[string]interface{}{
		"v":    "2",
		"ps":   c.Name,
		"add":  c.Server,
		"port": c.Port,
		"id":   c.UUID,
		"aid":  c.AlterID,
		"net":  c.Network,
		"host": c.Host,
		"path": c.Path,
		"tls":  c.TLS,
		"sni":  c.SNI,
	}
	b, _ := json.Marshal(payload)
	return "vmess://" + base64.StdEncoding.EncodeToString(b)
}

func (c *Config) toShadowSocksURI() string {
	userInfo := base64.RawURLEncoding.EncodeToString([]byte(c.Method + ":" + c.Password))
	u := url.URL{
		Scheme:   "ss",
		User:     url.User(userInfo),
		Host:     fmt.Sprintf("%s:%d", c.Server, c.Port),
		Fragment: c.Name,
	}
	return u.String()
}

func (c *Config) toGenericURI() string {
	u := url.URL{
		Scheme:   string(c.Kind),
		Host:     fmt.Sprintf("%s:%d", c.Server, c.Port),
		Fragment: c.Name,
	}

	switch c.Kind {
	case KindSocks, KindHTTP:
		if c.Username != "" && c.Password != "" {
			u.User = url.UserPassword(c.Username, c.Password)
		} else if c.Username != "" {
			u.User = url.User(c.Username)
		}
	default:
		u.User = url.User(c.Password)
	}

	q := u.Query()
	if c.Network != "" && c.Network != "tcp" {
		q.Set("type", c.Network)
	}
	if c.TLS != "" {
		q.Set("security", c.TLS)
	}
	if c.SNI != "" {
		q.Set("sni", c.SNI)
	}
	switch c.Network {
	case "grpc":
		if c.Path != "" {
			q.Set("serviceName", c.Path)
		}
	default:
		if c.Host != "" {
			q.Set("host", c.Host)
		}
		if c.Path != "" {
			q.Set("path", c.Path)
		}
	}
	if c.Kind == KindVless && c.Flow != "" {
		q.Set("flow", c.Flow)
	}

	u.RawQuery = q.Encode()
	return u.String()
}
