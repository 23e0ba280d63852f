package relay_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"vaultwire/internal/crypto"
	"vaultwire/internal/domain"
	"vaultwire/internal/envelope"
	"vaultwire/internal/relay"
)

// testSigner signs request bodies with a throwaway Ed25519 key.
type testSigner struct {
	priv    domain.Ed25519Private
	pub     domain.Ed25519Public
	vaultID string
}

func newTestSigner(t *testing.T) *testSigner {
	t.Helper()
	priv, pub, err := crypto.GenerateEd25519()
	if err != nil {
		t.Fatalf("GenerateEd25519: %v", err)
	}
	return &testSigner{priv: priv, pub: pub, vaultID: "vault_test"}
}

func (s *testSigner) Sign(content any) (string, error) { return crypto.SignJSON(s.priv, content) }
func (s *testSigner) VaultID() string                  { return s.vaultID }

func newClient(t *testing.T, srv *httptest.Server, signer relay.Signer) *relay.Client {
	t.Helper()
	c, err := relay.New(relay.Config{
		BaseURL:    srv.URL,
		Signer:     signer,
		HTTPClient: srv.Client(),
	})
	if err != nil {
		t.Fatalf("relay.New: %v", err)
	}
	return c
}

func TestNew_RequiresBaseURL(t *testing.T) {
	if _, err := relay.New(relay.Config{}); err == nil {
		t.Fatal("empty BaseURL accepted")
	}
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	if err := newClient(t, srv, nil).Health(context.Background()); err != nil {
		t.Fatalf("Health: %v", err)
	}
}

func TestSendMessage_SignedHeadersVerify(t *testing.T) {
	signer := newTestSigner(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/send" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("X-Vault-ID"); got != signer.vaultID {
			t.Errorf("X-Vault-ID = %q", got)
		}

		// The relay recomputes the canonical form of the body and
		// verifies the header signature against it.
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read body: %v", err)
		}
		var body any
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Errorf("parse body: %v", err)
		}
		if err := crypto.VerifyJSON(signer.pub, body, r.Header.Get("X-Signature")); err != nil {
			t.Errorf("X-Signature does not verify: %v", err)
		}

		json.NewEncoder(w).Encode(domain.SendResult{
			MessageID:      "msg_1",
			Recipient:      "vault_bob",
			ConversationID: "conv_1",
		})
	}))
	defer srv.Close()

	msg, err := envelope.NewRequest("vault_test", "vault_bob", "ping", nil, 0, "")
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	result, err := newClient(t, srv, signer).SendMessage(context.Background(), msg, "sig", nil)
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if result.MessageID != "msg_1" || result.ConversationID != "conv_1" {
		t.Fatalf("result = %+v", result)
	}
}

func TestSendMessage_WithoutSignerFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request reached the relay without a signer")
	}))
	defer srv.Close()

	msg, err := envelope.NewRequest("a", "b", "ping", nil, 0, "")
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if _, err := newClient(t, srv, nil).SendMessage(context.Background(), msg, "sig", nil); err == nil {
		t.Fatal("signed endpoint accepted a client with no signer")
	}
}

func TestErrorCode_PassedThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"code":"unknown_recipient","error":"no such vault"}`))
	}))
	defer srv.Close()

	msg, err := envelope.NewRequest("a", "b", "ping", nil, 0, "")
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	_, err = newClient(t, srv, newTestSigner(t)).SendMessage(context.Background(), msg, "sig", nil)

	var relayErr *relay.Error
	if !errors.As(err, &relayErr) {
		t.Fatalf("want *relay.Error, got %v", err)
	}
	if relayErr.Code != relay.CodeUnknownRecipient || relayErr.StatusCode != http.StatusNotFound {
		t.Fatalf("error = %+v", relayErr)
	}
	if relayErr.Message != "no such vault" {
		t.Fatalf("message = %q", relayErr.Message)
	}
	if !relay.IsError(err, relay.CodeUnknownRecipient) {
		t.Fatal("IsError did not match the code")
	}
}

func TestError_NonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	}))
	defer srv.Close()

	err := newClient(t, srv, nil).Health(context.Background())
	var relayErr *relay.Error
	if !errors.As(err, &relayErr) {
		t.Fatalf("want *relay.Error, got %v", err)
	}
	if relayErr.Code != relay.CodeUnknown || relayErr.Message != "upstream exploded" {
		t.Fatalf("error = %+v", relayErr)
	}
}

func TestTransportError_NotARelayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	err := newClient(t, srv, nil).Health(context.Background())
	if err == nil {
		t.Fatal("want transport error")
	}
	var relayErr *relay.Error
	if errors.As(err, &relayErr) {
		t.Fatalf("transport failure surfaced as a relay rejection: %v", err)
	}
}

func TestReceive_LimitAndShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/receive/vault_test" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("limit"); got != "5" {
			t.Errorf("limit = %q", got)
		}
		w.Write([]byte(`{"messages":[{"message_id":"msg_1","sender":"vault_alice","signature":"s","received_at":"2026-01-01T00:00:00Z","message":{"envelope":{"id":"msg_1"},"payload":{"intent":"ping"}}}]}`))
	}))
	defer srv.Close()

	msgs, err := newClient(t, srv, nil).Receive(context.Background(), "vault_test", 5)
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Sender != "vault_alice" || msgs[0].Message.Payload.Intent != "ping" {
		t.Fatalf("msgs = %+v", msgs)
	}
}

func TestResolveAlias(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/resolve/") {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(domain.AgentInfo{VaultID: "vault_alice", Alias: "alice"})
	}))
	defer srv.Close()

	agent, err := newClient(t, srv, nil).ResolveAlias(context.Background(), "alice")
	if err != nil {
		t.Fatalf("ResolveAlias: %v", err)
	}
	if agent.VaultID != "vault_alice" {
		t.Fatalf("agent = %+v", agent)
	}
}

func TestAcknowledge_PathAndBody(t *testing.T) {
	signer := newTestSigner(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ack/msg_42" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["vault_id"] != "vault_test" {
			t.Errorf("body = %v", body)
		}
	}))
	defer srv.Close()

	if err := newClient(t, srv, signer).Acknowledge(context.Background(), "msg_42", "vault_test"); err != nil {
		t.Fatalf("Acknowledge: %v", err)
	}
}
