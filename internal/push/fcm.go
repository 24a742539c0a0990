package push

import (
	"context"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// FCM accepts up to 500 messages per SendEach call.
const fcmBatchSize = 500

// FCMClient delivers to bare FCM device tokens (Android builds that register
// outside of Expo).
type FCMClient struct {
	client *messaging.Client
}

func NewFCMClient(ctx context.Context, credentialsJSON []byte) (*FCMClient, error) {
	app, err := firebase.NewApp(ctx, &firebase.Config{}, option.WithCredentialsJSON(credentialsJSON))
	if err != nil {
		return nil, fmt.Errorf("firebase init failed: %w", err)
	}

	messagingClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("messaging client init failed: %w", err)
	}

	return &FCMClient{client: messagingClient}, nil
}

func (f *FCMClient) send(ctx context.Context, tokens []string, n Notification) Result {
	data := make(map[string]string, len(n.Data)+1)
	for k, v := range n.Data {
		data[k] = v
	}
	if n.ImageURL != "" {
		data["imageUrl"] = n.ImageURL
	}

	badge := 1

	messages := make([]*messaging.Message, 0, len(tokens))
	for _, token := range tokens {
		messages = append(messages, &messaging.Message{
			Token: token,
			Notification: &messaging.Notification{
				Title: n.Title,
				Body:  n.Body,
			},
			Data: data,
			APNS: &messaging.APNSConfig{
				Payload: &messaging.APNSPayload{
					Aps: &messaging.Aps{
						Sound: "default",
						Badge: &badge,
					},
				},
			},
			Android: &messaging.AndroidConfig{
				Notification: &messaging.AndroidNotification{
					Sound: "default",
				},
				Priority: "high",
			},
		})
	}

	var result Result
	for i := 0; i < len(messages); i += fcmBatchSize {
		end := i + fcmBatchSize
		if end > len(messages) {
			end = len(messages)
		}

		batch := messages[i:end]
		resp, err := f.client.SendEach(ctx, batch)
		if err != nil {
			log.Printf("❌ [FCM] Batch [%d:%d] failed: %v", i, end, err)
			result.Errors += len(batch)
			continue
		}

		for j, r := range resp.Responses {
			if !r.Success {
				result.Errors++
				log.Printf("⚠️ [FCM] Token %s failed: %v", maskToken(tokens[i+j]), r.Error)
				continue
			}
			result.Sent++
		}
	}
	return result
}
