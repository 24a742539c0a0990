package push

import (
	"context"
	"errors"
	"fmt"
	"testing"

	expo "github.com/oliveroneill/exponent-server-sdk-golang/sdk"
)

type fakeExpo struct {
	batches [][]expo.PushMessage
	errOn   map[int]error // batch index → error
}

func (f *fakeExpo) publish(messages []expo.PushMessage) ([]expo.PushResponse, error) {
	idx := len(f.batches)
	f.batches = append(f.batches, messages)
	if err := f.errOn[idx]; err != nil {
		return nil, err
	}
	responses := make([]expo.PushResponse, len(messages))
	for i := range responses {
		responses[i] = expo.PushResponse{Status: expo.SuccessStatus}
	}
	return responses, nil
}

type fakeFCM struct {
	tokens []string
	result Result
}

func (f *fakeFCM) send(_ context.Context, tokens []string, _ Notification) Result {
	f.tokens = append(f.tokens, tokens...)
	return f.result
}

type staticTokens map[string][]string

func (s staticTokens) TokensForUsers(_ context.Context, userIDs []string) ([]string, error) {
	var out []string
	for _, id := range userIDs {
		out = append(out, s[id]...)
	}
	return out, nil
}

func TestSendToTokensPartitionsByTokenShape(t *testing.T) {
	fe := &fakeExpo{}
	ff := &fakeFCM{result: Result{Sent: 1}}
	s := &Sender{tokens: staticTokens{}, expo: fe, fcm: ff}

	result := s.SendToTokens(context.Background(),
		[]string{"ExponentPushToken[aaa]", "raw-fcm-device-token"},
		Notification{Title: "hi"})

	if len(fe.batches) != 1 || len(fe.batches[0]) != 1 {
		t.Fatalf("expo batches = %v", fe.batches)
	}
	if len(ff.tokens) != 1 || ff.tokens[0] != "raw-fcm-device-token" {
		t.Fatalf("fcm tokens = %v", ff.tokens)
	}
	if result.Sent != 2 || result.Errors != 0 || result.Invalid != 0 {
		t.Errorf("result = %+v", result)
	}
}

func TestSendToTokensWithoutFCMCountsRawTokensInvalid(t *testing.T) {
	fe := &fakeExpo{}
	s := &Sender{tokens: staticTokens{}, expo: fe}

	result := s.SendToTokens(context.Background(),
		[]string{"ExponentPushToken[aaa]", "raw-fcm-device-token"},
		Notification{Title: "hi"})

	if result.Invalid != 1 {
		t.Errorf("invalid = %d, want 1", result.Invalid)
	}
	if result.Sent != 1 {
		t.Errorf("sent = %d, want 1", result.Sent)
	}
}

func TestSendExpoChunksAtProviderLimit(t *testing.T) {
	fe := &fakeExpo{}

	tokens := make([]expo.ExponentPushToken, 0, 250)
	for i := 0; i < 250; i++ {
		token, err := expo.NewExponentPushToken(fmt.Sprintf("ExponentPushToken[%d]", i))
		if err != nil {
			t.Fatalf("token %d: %v", i, err)
		}
		tokens = append(tokens, token)
	}

	result := sendExpo(fe, tokens, Notification{Title: "hi"})

	if len(fe.batches) != 3 {
		t.Fatalf("batches = %d, want 3", len(fe.batches))
	}
	if len(fe.batches[0]) != 100 || len(fe.batches[1]) != 100 || len(fe.batches[2]) != 50 {
		t.Errorf("batch sizes = %d/%d/%d", len(fe.batches[0]), len(fe.batches[1]), len(fe.batches[2]))
	}
	if result.Sent != 250 || result.Errors != 0 {
		t.Errorf("result = %+v", result)
	}
}

func TestSendExpoFailedChunkDoesNotStopSiblings(t *testing.T) {
	fe := &fakeExpo{errOn: map[int]error{0: errors.New("expo is down")}}

	tokens := make([]expo.ExponentPushToken, 0, 150)
	for i := 0; i < 150; i++ {
		token, _ := expo.NewExponentPushToken(fmt.Sprintf("ExponentPushToken[%d]", i))
		tokens = append(tokens, token)
	}

	result := sendExpo(fe, tokens, Notification{Title: "hi"})

	if len(fe.batches) != 2 {
		t.Fatalf("batches = %d, want 2", len(fe.batches))
	}
	if result.Errors != 100 {
		t.Errorf("errors = %d, want 100 (whole failed chunk)", result.Errors)
	}
	if result.Sent != 50 {
		t.Errorf("sent = %d, want 50", result.Sent)
	}
}

func TestSendExpoForwardsImageURLInData(t *testing.T) {
	fe := &fakeExpo{}
	token, _ := expo.NewExponentPushToken("ExponentPushToken[aaa]")

	sendExpo(fe, []expo.ExponentPushToken{token}, Notification{
		Title:    "Remember this?",
		Data:     map[string]string{"type": "lookback"},
		ImageURL: "https://img.grateful.so/e.jpg",
	})

	msg := fe.batches[0][0]
	data := msg.Data
	if data["imageUrl"] != "https://img.grateful.so/e.jpg" {
		t.Errorf("imageUrl = %q", data["imageUrl"])
	}
	if data["type"] != "lookback" {
		t.Errorf("type = %q", data["type"])
	}
	if msg.Sound != "default" || msg.ChannelID != "default" {
		t.Errorf("msg = %+v", msg)
	}
}

func TestSendToUsersResolvesTokens(t *testing.T) {
	fe := &fakeExpo{}
	s := &Sender{
		tokens: staticTokens{"carol": {"ExponentPushToken[aaa]", "ExponentPushToken[bbb]"}},
		expo:   fe,
	}

	result := s.SendToUsers(context.Background(), []string{"carol", "nobody"}, Notification{Title: "hi"})
	if result.Sent != 2 {
		t.Errorf("sent = %d, want 2", result.Sent)
	}
}

func TestSendToUsersEmptyRecipients(t *testing.T) {
	fe := &fakeExpo{}
	s := &Sender{tokens: staticTokens{}, expo: fe}

	if result := s.SendToUsers(context.Background(), nil, Notification{}); result != (Result{}) {
		t.Errorf("result = %+v, want zero", result)
	}
	if len(fe.batches) != 0 {
		t.Errorf("no push may go out for zero recipients")
	}
}

func TestNewExpoTransport(t *testing.T) {
	transport := newExpoTransport("access-token")
	if transport.client == nil {
		t.Fatal("transport must wrap a configured client")
	}
}

func TestMaskToken(t *testing.T) {
	if got := maskToken("ExponentPushToken[abcdef]"); got != "...bcdef]" {
		t.Errorf("maskToken = %q", got)
	}
	if got := maskToken("short"); got != "short" {
		t.Errorf("maskToken short = %q", got)
	}
}
