package link

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMarshalVMess(t *testing.T) {
	c := &Config{
		Kind:     KindVMess,
		Server:   "a.com",
		Port:     443,
		UUID:     "u1",
		Security: "auto",
		Network:  "tcp",
		Source:   "https://sub.example/feed",
	}

	var m map[string]interface{}
	b, err := json.Marshal(c)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(b, &m))

	require.Equal(t, "vmess", m["type"])
	require.Equal(t, "u1", m["uuid"])
	require.Equal(t, "auto", m["cipher"])
	require.Equal(t, "https://sub.example/feed", m["source"])
	// name is required even when empty; unset optionals are omitted
	require.Contains(t, m, "name")
	require.Contains(t, m, "alterId")
	require.NotContains(t, m, "tls")
	require.NotContains(t, m, "sni")
	require.NotContains(t, m, "host")
}

func TestMarshalShadowSocks(t *testing.T) {
	c := &Config{Kind: KindShadowSocks, Server: "1.2.3.4", Port: 8388, Method: "aes-256-gcm", Password: "pass"}

	var m map[string]interface{}
	b, err := json.Marshal(c)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(b, &m))

	require.Equal(t, "shadowsocks", m["type"])
	require.Equal(t, "aes-256-gcm", m["method"])
	require.Equal(t, "pass", m["password"])
	require.NotContains(t, m, "source")
}

func TestMarshalTrojanOmitsForeignFlow(t *testing.T) {
	// Flow is a vless concept; a trojan record never serializes one.
	c := &Config{Kind: KindTrojan, Server: "t.com", Port: 443, Password: "pw", Network: "tcp", Flow: "stray"}

	var m map[string]interface{}
	b, err := json.Marshal(c)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(b, &m))

	require.Equal(t, "trojan", m["type"])
	require.NotContains(t, m, "flow")
}

func TestMarshalSocksAnonymous(t *testing.T) {
	c := &Config{Kind: KindSocks, Server: "s.com", Port: 1080}

	var m map[string]interface{}
	b, err := json.Marshal(c)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(b, &m))

	require.Equal(t, "socks", m["type"])
	require.NotContains(t, m, "username")
	require.NotContains(t, m, "password")
}

func TestValid(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want bool
	}{
		{name: "vmess ok", cfg: Config{Kind: KindVMess, Server: "a", UUID: "u"}, want: true},
		{name: "vmess no uuid", cfg: Config{Kind: KindVMess, Server: "a"}, want: false},
		{name: "ss no password", cfg: Config{Kind: KindShadowSocks, Server: "a", Method: "m"}, want: false},
		{name: "trojan ok", cfg: Config{Kind: KindTrojan, Server: "a", Password: "p"}, want: true},
		{name: "vless no password", cfg: Config{Kind: KindVless, Server: "a"}, want: false},
		{name: "socks anonymous ok", cfg: Config{Kind: KindSocks, Server: "a"}, want: true},
		{name: "empty server", cfg: Config{Kind: KindHTTP}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}
