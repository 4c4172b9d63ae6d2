package link

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSubscriptionMultiLine(t *testing.T) {
	body := strings.Join([]string{
		"trojan://pw@good.example:443#ok",
		"# note",
		"vless://missing.example:443?type=tcp",
	}, "\n")

	configs, candidates := ParseSubscription(body)
	require.Len(t, configs, 1)
	require.Equal(t, KindTrojan, configs[0].Kind)
	// The comment is filtered before dispatch, so only two lines count.
	require.Equal(t, 2, candidates)
}

func TestParseSubscriptionBase64Body(t *testing.T) {
	plain := "trojan://pw@a.example:443#one\ntrojan://pw@b.example:443#two\n"
	body := base64.StdEncoding.EncodeToString([]byte(plain))

	configs, candidates := ParseSubscription(body)
	require.Len(t, configs, 2)
	require.Equal(t, 2, candidates)
	require.Equal(t, "a.example", configs[0].Server)
	require.Equal(t, "b.example", configs[1].Server)
}

func TestParseSubscriptionSingleLink(t *testing.T) {
	configs, candidates := ParseSubscription("  ss://YWVzLTI1Ni1nY206cGFzcw==@1.2.3.4:8388#n  ")
	require.Len(t, configs, 1)
	require.Equal(t, 1, candidates)
}

func TestParseSubscriptionDecodeBoundedToOneLevel(t *testing.T) {
	// Doubly-wrapped bodies stop after one decode; the inner base64 is
	// then a single unparseable candidate, not another decode pass.
	link := "trojan://pw@c.example:443#x\n"
	once := base64.StdEncoding.EncodeToString([]byte(link))
	twice := base64.StdEncoding.EncodeToString([]byte(once))

	configs, candidates := ParseSubscription(twice)
	require.Empty(t, configs)
	require.Equal(t, 1, candidates)
}

func TestParseSubscriptionLineFilters(t *testing.T) {
	body := strings.Join([]string{
		"",
		"abc", // shorter than the minimum candidate length
		"// commented out",
		"   trojan://pw@d.example:443#kept   ",
	}, "\n")

	configs, candidates := ParseSubscription(body)
	require.Len(t, configs, 1)
	require.Equal(t, 1, candidates)
	require.Equal(t, "kept", configs[0].Name)
}

func TestParseSubscriptionEmptyBody(t *testing.T) {
	configs, candidates := ParseSubscription("   ")
	require.Empty(t, configs)
	require.Zero(t, candidates)
}

func TestParseSubscriptionOrderPreserved(t *testing.T) {
	body := "trojan://pw@n1:1#a\ntrojan://pw@n2:2#b\ntrojan://pw@n3:3#c"
	configs, _ := ParseSubscription(body)
	require.Len(t, configs, 3)
	require.Equal(t, "n1", configs[0].Server)
	require.Equal(t, "n2", configs[1].Server)
	require.Equal(t, "n3", configs[2].Server)
}
