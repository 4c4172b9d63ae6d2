package xray

import (
	"encoding/json"
	"fmt"

	"confcollect/internal/link"

	"github.com/xtls/xray-core/infra/conf"
)

// ToOutbound converts a normalized record into an Xray outbound config.
func ToOutbound(c *link.Config) (*conf.OutboundDetourConfig, error) {
	var protocol string
	var settings json.RawMessage

	switch c.Kind {
	case link.KindVMess:
		protocol = "vmess"
		settings = buildVMess(c)
	case link.KindVless:
		protocol = "vless"
		settings = buildVLESS(c)
	case link.KindTrojan:
		protocol = "trojan"
		settings = buildTrojan(c)
	case link.KindShadowSocks:
		protocol = "shadowsocks"
		settings = buildShadowsocks(c)
	case link.KindSocks:
		protocol = "socks"
		settings = buildSocksHTTP(c)
	case link.KindHTTP:
		protocol = "http"
		settings = buildSocksHTTP(c)
	default:
		return nil, fmt.Errorf("protocol conversion not implemented: %s", c.Kind)
	}

	return &conf.OutboundDetourConfig{
		Tag:           "proxy",
		Protocol:      protocol,
		Settings:      &settings,
		StreamSetting: buildStreamSettings(c),
	}, nil
}

func buildVMess(c *link.Config) json.RawMessage {
	return jsonRaw(map[string]interface{}{
		"vnext": []interface{}{
			map[string]interface{}{
				"address": c.Server,
				"port":    c.Port,
				"users": []interface{}{
					map[string]interface{}{
						"id":       c.UUID,
						"alterId":  c.AlterID,
						"security": c.Security,
					},
				},
			},
		},
	})
}

func buildVLESS(c *link.Config) json.RawMessage {
	return jsonRaw(map[string]interface{}{
		"vnext": []interface{}{
			map[string]interface{}{
				"address": c.Server,
				"port":    c.Port,
				"users": []interface{}{
					map[string]interface{}{
						"id":         c.Password,
						"encryption": "none",
						"flow":       c.Flow,
					},
				},
			},
		},
	})
}

func buildTrojan(c *link.Config) json.RawMessage {
	return jsonRaw(map[string]interface{}{
		"servers": []interface{}{
			map[string]interface{}{
				"address":  c.Server,
				"port":     c.Port,
				"password": c.Password,
			},
		},
	})
}

func buildShadowsocks(c *link.Config) json.RawMessage {
	return jsonRaw(map[string]interface{}{
		"servers": []interface{}{
			map[string]interface{}{
				"address":  c.Server,
				"port":     c.Port,
				"method":   c.Method,
				"password": c.Password,
			},
		},
	})
}

func buildSocksHTTP(c *link.Config) json.RawMessage {
	server := map[string]interface{}{
		"address": c.Server,
		"port":    c.Port,
	}
	if c.Username != "" {
		server["users"] = []interface{}{
			map[string]interface{}{"user": c.Username, "pass": c.Password},
		}
	}
	return jsonRaw(map[string]interface{}{
		"servers": []interface{}{server},
	})
}

func buildStreamSettings(c *link.Config) *conf.StreamConfig {
	network := c.Network
	if network == "" {
		network = "tcp"
	}

	sc := &conf.StreamConfig{
		Network:  (*conf.TransportProtocol)(&network),
		Security: c.TLS,
	}

	if c.TLS == "tls" {
		sc.TLSSettings = &conf.TLSConfig{ServerName: c.SNI}
	}

	switch network {
	case "ws":
		sc.WSSettings = &conf.WebSocketConfig{
			Path:    c.Path,
			Headers: map[string]string{"Host": c.Host},
		}
	case "grpc":
		// Path carries the gRPC service name for this network
		sc.GRPCSettings = &conf.GRPCConfig{ServiceName: c.Path}
	}

	return sc
}

func jsonRaw(v interface{}) json.RawMessage {
	b, _ := json.Marshal(v)
	return json.RawMessage(b)
}

func toRawMessagePtr(s string) *json.RawMessage {
	msg := json.RawMessage(s)
	return &msg
}
