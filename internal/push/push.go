package push

import (
	"context"
	"log"

	expo "github.com/oliveroneill/exponent-server-sdk-golang/sdk"
)

// Notification is what fan-out handlers hand to the adapter. ImageURL is
// forwarded in the data payload for rich iOS notifications.
type Notification struct {
	Title    string
	Body     string
	Data     map[string]string
	ImageURL string
}

// Result aggregates per-message delivery tickets. Invalid counts tokens that
// matched no configured transport.
type Result struct {
	Sent    int
	Errors  int
	Invalid int
}

func (r *Result) merge(other Result) {
	r.Sent += other.Sent
	r.Errors += other.Errors
	r.Invalid += other.Invalid
}

// TokenStore resolves user ids to their registered device tokens.
type TokenStore interface {
	TokensForUsers(ctx context.Context, userIDs []string) ([]string, error)
}

// Dispatcher is the push delivery adapter. Delivery is best-effort and purely
// a transport call: failures are logged and counted, never retried.
type Dispatcher interface {
	SendToUsers(ctx context.Context, userIDs []string, n Notification) Result
	SendToTokens(ctx context.Context, tokens []string, n Notification) Result
}

type expoPublisher interface {
	publish(messages []expo.PushMessage) ([]expo.PushResponse, error)
}

type fcmPublisher interface {
	send(ctx context.Context, tokens []string, n Notification) Result
}

// Sender delivers through Expo for Expo-shaped tokens and through FCM for raw
// device tokens when FCM is configured.
type Sender struct {
	tokens TokenStore
	expo   expoPublisher
	fcm    fcmPublisher // nil when FCM is not configured
}

func New(tokens TokenStore, expoAccessToken string, fcm *FCMClient) *Sender {
	s := &Sender{
		tokens: tokens,
		expo:   newExpoTransport(expoAccessToken),
	}
	if fcm != nil {
		s.fcm = fcm
	}
	return s
}

func (s *Sender) SendToUsers(ctx context.Context, userIDs []string, n Notification) Result {
	if len(userIDs) == 0 {
		return Result{}
	}
	tokens, err := s.tokens.TokensForUsers(ctx, userIDs)
	if err != nil {
		log.Printf("❌ [PUSH] Failed to resolve tokens for %d users: %v", len(userIDs), err)
		return Result{}
	}
	if len(tokens) == 0 {
		log.Printf("📭 [PUSH] No push tokens found for %d users", len(userIDs))
		return Result{}
	}
	return s.SendToTokens(ctx, tokens, n)
}

func (s *Sender) SendToTokens(ctx context.Context, tokens []string, n Notification) Result {
	if len(tokens) == 0 {
		return Result{}
	}

	var expoTokens []expo.ExponentPushToken
	var fcmTokens []string
	var result Result

	for _, raw := range tokens {
		token, err := expo.NewExponentPushToken(raw)
		if err == nil {
			expoTokens = append(expoTokens, token)
			continue
		}
		if s.fcm != nil {
			fcmTokens = append(fcmTokens, raw)
			continue
		}
		result.Invalid++
		log.Printf("⚠️ [PUSH] Token %s is not a valid Expo push token, skipping", maskToken(raw))
	}

	if len(expoTokens) > 0 {
		result.merge(sendExpo(s.expo, expoTokens, n))
	}
	if len(fcmTokens) > 0 {
		result.merge(s.fcm.send(ctx, fcmTokens, n))
	}

	log.Printf("📣 [PUSH] Delivered %q → %d sent, %d errors, %d invalid",
		n.Title, result.Sent, result.Errors, result.Invalid)
	return result
}

// maskToken hides all but last 6 chars for logging safety
func maskToken(token string) string {
	if len(token) <= 6 {
		return token
	}
	return "..." + token[len(token)-6:]
}
