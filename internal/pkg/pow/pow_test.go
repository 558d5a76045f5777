package pow

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
)

func solve(t *testing.T, nonce string, difficulty int) string {
	t.Helper()
	for i := 0; i < 1<<20; i++ {
		counter := strconv.Itoa(i)
		if MeetsDifficulty(nonce, counter, difficulty) {
			return counter
		}
	}
	t.Fatalf("no solution found for nonce %s", nonce)
	return ""
}

func TestValidateProofIssuesSingleUseToken(t *testing.T) {
	m := NewPoWManager(2)
	defer m.Stop()

	nonce := m.GenerateNonce()
	token, err := m.ValidateProof(nonce, solve(t, nonce, 2))
	if err != nil {
		t.Fatalf("ValidateProof failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/groups", nil)
	req.Header.Set(TokenHeaderKey, token)

	if err := m.ConsumeProofToken(req); err != nil {
		t.Fatalf("First ConsumeProofToken failed: %v", err)
	}
	if err := m.ConsumeProofToken(req); !errors.Is(err, ErrProofTokenAbsent) {
		t.Errorf("Expected replayed token to be rejected, got %v", err)
	}
}

func TestValidateProofRejectsReusedNonce(t *testing.T) {
	m := NewPoWManager(1)
	defer m.Stop()

	nonce := m.GenerateNonce()
	counter := solve(t, nonce, 1)

	if _, err := m.ValidateProof(nonce, counter); err != nil {
		t.Fatalf("ValidateProof failed: %v", err)
	}
	if _, err := m.ValidateProof(nonce, counter); !errors.Is(err, ErrNonceInvalid) {
		t.Errorf("Expected ErrNonceInvalid on reuse, got %v", err)
	}
}

func TestValidateProofRejectsUnknownNonce(t *testing.T) {
	m := NewPoWManager(1)
	defer m.Stop()

	if _, err := m.ValidateProof("not-issued", "0"); !errors.Is(err, ErrNonceInvalid) {
		t.Errorf("Expected ErrNonceInvalid, got %v", err)
	}
}

func TestConsumeProofTokenFromQuery(t *testing.T) {
	m := NewPoWManager(0)
	defer m.Stop()

	nonce := m.GenerateNonce()
	token, err := m.ValidateProof(nonce, "anything")
	if err != nil {
		t.Fatalf("ValidateProof with zero difficulty failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/groups?pow_token="+token, nil)
	if err := m.ConsumeProofToken(req); err != nil {
		t.Errorf("Expected query token to be accepted, got %v", err)
	}
}
