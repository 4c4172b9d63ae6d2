package link

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

func b64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func TestParseVMessLegacyJSON(t *testing.T) {
	raw := "vmess://" + b64(`{"id":"u1","add":"a.com","port":443,"ps":"N1","aid":0,"net":"ws","path":"/x","host":"h.com","tls":"tls"}`)

	c, err := ParseLink(raw)
	require.NoError(t, err)
	require.Equal(t, KindVMess, c.Kind)
	require.Equal(t, "a.com", c.Server)
	require.Equal(t, 443, c.Port)
	require.Equal(t, "u1", c.UUID)
	require.Equal(t, "N1", c.Name)
	require.Equal(t, "ws", c.Network)
	require.Equal(t, "/x", c.Path)
	require.Equal(t, "h.com", c.Host)
	require.Equal(t, "tls", c.TLS)
	require.Equal(t, "auto", c.Security)
}

func TestParseVMessLegacyStringPort(t *testing.T) {
	// Port and aid appear as quoted numbers in many feeds.
	raw := "vmess://" + b64(`{"id":"u2","add":"b.com","port":"8443","aid":"1"}`)

	c, err := ParseLink(raw)
	require.NoError(t, err)
	require.Equal(t, 8443, c.Port)
	require.Equal(t, 1, c.AlterID)
	require.Equal(t, "tcp", c.Network)
}

func TestParseVMessLegacyBadJSON(t *testing.T) {
	// Decodable payload that is not a JSON object fails the line; it
	// must not fall through to the URI dialect.
	_, err := ParseLink("vmess://" + b64("not json at all"))
	require.Error(t, err)
}

func TestParseVMessURI(t *testing.T) {
	c, err := ParseLink("vmess://u3@c.com:443?encryption=zero&type=ws&security=tls&sni=s.com&path=%2Fws&host=cdn.com#Node%203")
	require.NoError(t, err)
	require.Equal(t, "u3", c.UUID)
	require.Equal(t, "c.com", c.Server)
	require.Equal(t, 443, c.Port)
	require.Equal(t, "Node 3", c.Name)
	require.Equal(t, "zero", c.Security)
	require.Equal(t, "ws", c.Network)
	require.Equal(t, "tls", c.TLS)
	require.Equal(t, "s.com", c.SNI)
	require.Equal(t, "/ws", c.Path)
	require.Equal(t, "cdn.com", c.Host)
}

func TestParseVMessURIDefaults(t *testing.T) {
	c, err := ParseLink("vmess://u4@d.com:80")
	require.NoError(t, err)
	require.Equal(t, "auto", c.Security)
	require.Equal(t, "tcp", c.Network)
	require.Empty(t, c.TLS)
	// path/host only apply to the ws transport
	require.Empty(t, c.Path)
	require.Empty(t, c.Host)
}

func TestParseVMessMissingUUID(t *testing.T) {
	_, err := ParseLink("vmess://e.com:443")
	require.Error(t, err)
}

func TestParseShadowSocksSIP002(t *testing.T) {
	c, err := ParseLink("ss://YWVzLTI1Ni1nY206cGFzcw==@1.2.3.4:8388#My-Node")
	require.NoError(t, err)
	require.Equal(t, KindShadowSocks, c.Kind)
	require.Equal(t, "aes-256-gcm", c.Method)
	require.Equal(t, "pass", c.Password)
	require.Equal(t, "1.2.3.4", c.Server)
	require.Equal(t, 8388, c.Port)
	require.Equal(t, "My-Node", c.Name)
}

func TestParseShadowSocksPlainUserinfo(t *testing.T) {
	c, err := ParseLink("ss://chacha20-ietf-poly1305:secret@5.6.7.8:8389")
	require.NoError(t, err)
	require.Equal(t, "chacha20-ietf-poly1305", c.Method)
	require.Equal(t, "secret", c.Password)
}

func TestParseShadowSocksLegacy(t *testing.T) {
	payload := base64.RawURLEncoding.EncodeToString([]byte("rc4-md5:pw@9.9.9.9:8388"))
	c, err := ParseLink("ss://" + payload + "#legacy-node")
	require.NoError(t, err)
	require.Equal(t, "rc4-md5", c.Method)
	require.Equal(t, "pw", c.Password)
	require.Equal(t, "9.9.9.9", c.Server)
	require.Equal(t, 8388, c.Port)
	require.Equal(t, "legacy-node", c.Name)
}

func TestParseShadowSocksBadUserinfo(t *testing.T) {
	// Userinfo that is neither method:password nor valid base64.
	_, err := ParseLink("ss://!!!invalid!!!@1.2.3.4:8388")
	require.Error(t, err)
}

func TestParseTrojan(t *testing.T) {
	c, err := ParseLink("trojan://pw1@t.com:443?security=tls&sni=t.com&type=ws&path=%2Fp&host=h.t.com#T")
	require.NoError(t, err)
	require.Equal(t, KindTrojan, c.Kind)
	require.Equal(t, "pw1", c.Password)
	require.Equal(t, "t.com", c.Server)
	require.Equal(t, "ws", c.Network)
	require.Equal(t, "/p", c.Path)
	require.Equal(t, "h.t.com", c.Host)
	require.Empty(t, c.Flow)
}

func TestParseVlessGRPC(t *testing.T) {
	c, err := ParseLink("vless://uuid-1@v.com:443?type=grpc&serviceName=svc&security=reality&flow=xtls-rprx-vision#V")
	require.NoError(t, err)
	require.Equal(t, KindVless, c.Kind)
	require.Equal(t, "uuid-1", c.Password)
	require.Equal(t, "grpc", c.Network)
	require.Equal(t, "svc", c.Path)
	require.Empty(t, c.Host)
	require.Equal(t, "xtls-rprx-vision", c.Flow)
	require.Equal(t, "reality", c.TLS)
}

func TestParseVlessMissingUserinfo(t *testing.T) {
	_, err := ParseLink("vless://v.com:443?type=tcp")
	require.Error(t, err)
}

func TestParseSocksCombinedCredential(t *testing.T) {
	c, err := ParseLink("socks://dXNlcjpwYXNz@host:1080")
	require.NoError(t, err)
	require.Equal(t, KindSocks, c.Kind)
	require.Equal(t, "user", c.Username)
	require.Equal(t, "pass", c.Password)
	require.Equal(t, "host", c.Server)
	require.Equal(t, 1080, c.Port)
}

func TestParseSocksExplicitCredential(t *testing.T) {
	c, err := ParseLink("socks5://u:p@host:9050#S5")
	require.NoError(t, err)
	require.Equal(t, KindSocks, c.Kind)
	require.Equal(t, "u", c.Username)
	require.Equal(t, "p", c.Password)
	require.Equal(t, "S5", c.Name)
}

func TestParseSocksAnonymous(t *testing.T) {
	c, err := ParseLink("socks://host.example")
	require.NoError(t, err)
	require.Empty(t, c.Username)
	require.Empty(t, c.Password)
	require.Equal(t, 1080, c.Port)
}

func TestParseHTTPDefaultPort(t *testing.T) {
	c, err := ParseLink("https://proxy.example#H")
	require.NoError(t, err)
	require.Equal(t, KindHTTP, c.Kind)
	require.Equal(t, 443, c.Port)
}

func TestParseUnknownScheme(t *testing.T) {
	_, err := ParseLink("wireguard://whatever")
	require.Error(t, err)
}
