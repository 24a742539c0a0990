package push

import (
	"log"

	expo "github.com/oliveroneill/exponent-server-sdk-golang/sdk"
)

// Expo accepts at most 100 notifications per publish call.
const expoChunkSize = 100

type expoTransport struct {
	client *expo.PushClient
}

func newExpoTransport(accessToken string) *expoTransport {
	return &expoTransport{
		client: expo.NewPushClient(&expo.ClientConfig{
			AccessToken: accessToken,
		}),
	}
}

func (t *expoTransport) publish(messages []expo.PushMessage) ([]expo.PushResponse, error) {
	return t.client.PublishMultiple(messages)
}

// sendExpo builds one message per token, submits them in provider-sized
// chunks, and turns the returned tickets into counts. A failed call for a
// chunk counts the whole chunk as errors; sibling chunks still go out.
func sendExpo(publisher expoPublisher, tokens []expo.ExponentPushToken, n Notification) Result {
	data := make(map[string]string, len(n.Data)+1)
	for k, v := range n.Data {
		data[k] = v
	}
	if n.ImageURL != "" {
		data["imageUrl"] = n.ImageURL
	}

	messages := make([]expo.PushMessage, 0, len(tokens))
	for _, token := range tokens {
		messages = append(messages, expo.PushMessage{
			To:        []expo.ExponentPushToken{token},
			Title:     n.Title,
			Body:      n.Body,
			Data:      data,
			Sound:     "default",
			Priority:  expo.HighPriority,
			ChannelID: "default",
		})
	}

	var result Result
	for i := 0; i < len(messages); i += expoChunkSize {
		end := i + expoChunkSize
		if end > len(messages) {
			end = len(messages)
		}

		chunk := messages[i:end]
		responses, err := publisher.publish(chunk)
		if err != nil {
			log.Printf("❌ [EXPO] Chunk [%d:%d] failed: %v", i, end, err)
			result.Errors += len(chunk)
			continue
		}

		for j, resp := range responses {
			if err := resp.ValidateResponse(); err != nil {
				result.Errors++
				log.Printf("⚠️ [EXPO] Token %s failed: %v", maskToken(string(tokens[i+j])), err)
				continue
			}
			result.Sent++
		}
	}
	return result
}
