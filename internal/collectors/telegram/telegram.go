package telegram

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"confcollect/internal/collectors"
	"confcollect/internal/link"
	"confcollect/internal/logger"

	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/telegram/dcs"
	"github.com/gotd/td/tg"
	"golang.org/x/net/proxy"
)

// Collector scrapes proxy links out of Telegram channel histories.
// Channels are a major distribution vector for subscription links that
// never appear on any HTTP feed.
type Collector struct{}

func (c *Collector) Collect(config map[string]interface{}) ([]collectors.Feed, error) {
	apiID, _ := config["api_id"].(int)
	apiHash, _ := config["api_hash"].(string)
	if apiID == 0 || apiHash == "" {
		return nil, fmt.Errorf("missing api_id or api_hash")
	}

	messageLimit, _ := config["limit"].(int)
	if messageLimit == 0 {
		messageLimit = 500
	}

	sessionFile, _ := config["session_file"].(string)
	if sessionFile == "" {
		sessionFile = "telegram.session"
	}
	if dir := filepath.Dir(sessionFile); dir != "." && dir != "" {
		_ = os.MkdirAll(dir, 0700)
	}

	var chatIDs []int64
	if chats, ok := config["chats"].([]interface{}); ok {
		for _, chat := range chats {
			switch id := chat.(type) {
			case int:
				chatIDs = append(chatIDs, int64(id))
			case int64:
				chatIDs = append(chatIDs, id)
			}
		}
	}

	dialer := proxy.Dialer(proxy.Direct)
	if proxyURL, ok := config["_proxy_url"].(string); ok && proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			if d, err := proxy.FromURL(u, proxy.Direct); err == nil {
				dialer = d
				logger.Log.Infof("Telegram using proxy: %s", proxyURL)
			}
		}
	}

	client := telegram.NewClient(apiID, apiHash, telegram.Options{
		SessionStorage: &telegram.FileSessionStorage{Path: sessionFile},
		Resolver: dcs.Plain(dcs.PlainOptions{
			Dial: func(ctx context.Context, network, addr string) (net.Conn, error) {
				return dialer.Dial(network, addr)
			},
		}),
	})

	var feeds []collectors.Feed
	ctx := context.Background()

	err := client.Run(ctx, func(ctx context.Context) error {
		flow := auth.NewFlow(termAuth{}, auth.SendCodeOptions{})
		if err := client.Auth().IfNecessary(ctx, flow); err != nil {
			return fmt.Errorf("authentication failed: %w", err)
		}
		logger.Log.Info("🔓 Telegram login successful")

		api := client.API()
		peers, err := resolvePeers(ctx, api)
		if err != nil {
			return err
		}

		for _, chatID := range chatIDs {
			peer, found := peers[chatID]
			if !found {
				logger.Log.Warnf("Could not resolve chat ID %d (not joined or not in recent dialogs)", chatID)
				continue
			}

			links, scanned := scrapeChat(ctx, api, peer, messageLimit)
			logger.Log.Infof("📥 Chat %d: %d links in %d messages", chatID, len(links), scanned)
			if len(links) > 0 {
				feeds = append(feeds, collectors.Feed{
					Source: fmt.Sprintf("telegram:%d", chatID),
					Body:   strings.Join(links, "\n"),
				})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return feeds, nil
}

// resolvePeers maps chat IDs from the config (both raw and the -100
// prefixed form used by clients) to input peers with access hashes.
func resolvePeers(ctx context.Context, api *tg.Client) (map[int64]tg.InputPeerClass, error) {
	dialogs, err := api.MessagesGetDialogs(ctx, &tg.MessagesGetDialogsRequest{
		OffsetPeer: &tg.InputPeerEmpty{},
		Limit:      100,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get dialogs: %w", err)
	}

	var chats []tg.ChatClass
	switch d := dialogs.(type) {
	case *tg.MessagesDialogs:
		chats = d.Chats
	case *tg.MessagesDialogsSlice:
		chats = d.Chats
	}

	peers := make(map[int64]tg.InputPeerClass)
	for _, chat := range chats {
		switch c := chat.(type) {
		case *tg.Channel:
			p := &tg.InputPeerChannel{ChannelID: c.ID, AccessHash: c.AccessHash}
			peers[c.ID] = p
			peers[-1000000000000-c.ID] = p
		case *tg.Chat:
			p := &tg.InputPeerChat{ChatID: c.ID}
			peers[c.ID] = p
			peers[-c.ID] = p
		}
	}
	return peers, nil
}

func scrapeChat(ctx context.Context, api *tg.Client, peer tg.InputPeerClass, limit int) (links []string, scanned int) {
	offsetID := 0
	for scanned < limit {
		batch := limit - scanned
		if batch > 100 {
			batch = 100 // API page cap
		}

		history, err := api.MessagesGetHistory(ctx, &tg.MessagesGetHistoryRequest{
			Peer:     peer,
			Limit:    batch,
			OffsetID: offsetID,
		})
		if err != nil {
			logger.Log.Errorf("Failed to fetch history batch: %v", err)
			break
		}

		var messages []tg.MessageClass
		switch h := history.(type) {
		case *tg.MessagesMessages:
			messages = h.Messages
		case *tg.MessagesMessagesSlice:
			messages = h.Messages
		case *tg.MessagesChannelMessages:
			messages = h.Messages
		}
		if len(messages) == 0 {
			break
		}

		for _, msg := range messages {
			if m, ok := msg.(*tg.Message); ok {
				links = append(links, link.ExtractLinks(m.Message)...)
				offsetID = m.ID
			}
		}
		scanned += len(messages)
	}
	return links, scanned
}

type termAuth struct{}

func (termAuth) Phone(_ context.Context) (string, error) {
	return prompt("📞 Enter Phone Number: ")
}

func (termAuth) Password(_ context.Context) (string, error) {
	return prompt("🔐 Enter 2FA Password: ")
}

func (termAuth) Code(_ context.Context, _ *tg.AuthSentCode) (string, error) {
	return prompt("📩 Enter Code: ")
}

func (termAuth) SignUp(_ context.Context) (auth.UserInfo, error) {
	first, _ := prompt("👤 Enter First Name: ")
	last, _ := prompt("👤 Enter Last Name: ")
	return auth.UserInfo{FirstName: first, LastName: last}, nil
}

func (termAuth) AcceptTermsOfService(_ context.Context, _ tg.HelpTermsOfService) error {
	return nil
}

func prompt(label string) (string, error) {
	fmt.Print(label)
	text, err := bufio.NewReader(os.Stdin).ReadString('\n')
	return strings.TrimSpace(text), err
}

func init() {
	collectors.Register("telegram", func() collectors.Collector {
		return &Collector{}
	})
}
