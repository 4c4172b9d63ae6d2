package link

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVMessURIRoundTrip(t *testing.T) {
	orig := &Config{
		Kind:     KindVMess,
		Name:     "N1",
		Server:   "a.com",
		Port:     443,
		UUID:     "u1",
		Security: "auto",
		Network:  "ws",
		Path:     "/x",
		Host:     "h.com",
		TLS:      "tls",
	}

	parsed, err := ParseLink(orig.ToURI())
	require.NoError(t, err)
	require.Equal(t, orig.UUID, parsed.UUID)
	require.Equal(t, orig.Server, parsed.Server)
	require.Equal(t, orig.Port, parsed.Port)
	require.Equal(t, orig.Name, parsed.Name)
	require.Equal(t, orig.Network, parsed.Network)
	require.Equal(t, orig.Path, parsed.Path)
}

func TestShadowSocksURIRoundTrip(t *testing.T) {
	orig := &Config{
		Kind:     KindShadowSocks,
		Name:     "My-Node",
		Server:   "1.2.3.4",
		Port:     8388,
		Method:   "aes-256-gcm",
		Password: "pass",
	}

	parsed, err := ParseLink(orig.ToURI())
	require.NoError(t, err)
	require.Equal(t, orig.Method, parsed.Method)
	require.Equal(t, orig.Password, parsed.Password)
	require.Equal(t, orig.Server, parsed.Server)
	require.Equal(t, orig.Port, parsed.Port)
	require.Equal(t, orig.Name, parsed.Name)
}

func TestVlessURIRoundTrip(t *testing.T) {
	orig := &Config{
		Kind:     KindVless,
		Name:     "V",
		Server:   "v.com",
		Port:     443,
		Password: "uuid-1",
		Network:  "grpc",
		TLS:      "reality",
		SNI:      "sni.com",
		Path:     "svc",
		Flow:     "xtls-rprx-vision",
	}

	parsed, err := ParseLink(orig.ToURI())
	require.NoError(t, err)
	require.Equal(t, orig.Password, parsed.Password)
	require.Equal(t, orig.Network, parsed.Network)
	require.Equal(t, orig.Path, parsed.Path)
	require.Equal(t, orig.Flow, parsed.Flow)
	require.Equal(t, orig.TLS, parsed.TLS)
}

func TestSocksURIRoundTrip(t *testing.T) {
	orig := &Config{
		Kind:     KindSocks,
		Server:   "host",
		Port:     1080,
		Username: "user",
		Password: "pass",
	}

	parsed, err := ParseLink(orig.ToURI())
	require.NoError(t, err)
	require.Equal(t, orig.Username, parsed.Username)
	require.Equal(t, orig.Password, parsed.Password)
	require.Equal(t, orig.Server, parsed.Server)
}
