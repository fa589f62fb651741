package credentials

import (
	"context"
	"errors"
	"testing"
)

func TestStaticStore_Current(t *testing.T) {
	creds := Credentials{
		AccessToken: "token-123",
		InstanceURL: "https://instance.example.com",
	}

	store := NewStaticStore(creds)

	got, ok := store.Current()
	if !ok {
		t.Fatal("expected credentials to be present")
	}
	if got != creds {
		t.Errorf("unexpected credentials: %+v", got)
	}
}

func TestStaticStore_Current_EmptyToken(t *testing.T) {
	store := NewStaticStore(Credentials{InstanceURL: "https://instance.example.com"})

	if _, ok := store.Current(); ok {
		t.Error("credentials without an access token should be reported absent")
	}
}

func TestStaticStore_Current_Nil(t *testing.T) {
	var store *StaticStore

	if _, ok := store.Current(); ok {
		t.Error("nil store should report no credentials")
	}
}

func TestStaticStore_Refresh(t *testing.T) {
	store := NewStaticStore(Credentials{AccessToken: "token-123"})

	_, err := store.Refresh(context.Background())
	if !errors.Is(err, ErrRefreshUnavailable) {
		t.Errorf("expected ErrRefreshUnavailable, got %v", err)
	}
}
