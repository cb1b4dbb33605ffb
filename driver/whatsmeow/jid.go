package whatsmeow

import (
	"fmt"
	"strings"

	"go.mau.fi/whatsmeow/types"
)

// legacyUserServer is the user suffix used by chat ids on the wire to subscribers
const legacyUserServer = "c.us"

// ParseChatID accepts "<number>@c.us", bare numbers and any full JID
func ParseChatID(chatID string) (types.JID, error) {
	chatID = strings.TrimSpace(chatID)
	if chatID == "" {
		return types.JID{}, fmt.Errorf("empty chat id")
	}

	user, server, found := strings.Cut(chatID, "@")
	if !found {
		return types.NewJID(strings.TrimPrefix(user, "+"), types.DefaultUserServer), nil
	}
	if server == legacyUserServer {
		return types.NewJID(user, types.DefaultUserServer), nil
	}

	jid, err := types.ParseJID(chatID)
	if err != nil {
		return types.JID{}, fmt.Errorf("parsing chat id %q: %w", chatID, err)
	}
	return jid, nil
}

// ChatID renders a JID the way subscribers expect it: users as <number>@c.us, groups unchanged
func ChatID(jid types.JID) string {
	if jid.IsEmpty() {
		return ""
	}
	jid = jid.ToNonAD()
	if jid.Server == types.DefaultUserServer {
		return jid.User + "@" + legacyUserServer
	}
	return jid.String()
}

func chatIDs(jids []types.JID) []string {
	out := make([]string, 0, len(jids))
	for _, j := range jids {
		out = append(out, ChatID(j))
	}
	return out
}
