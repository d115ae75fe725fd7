package internal

import (
	"testing"

	"github.com/veckert/daybook/internal/store"
)

func TestOptions_Apply(t *testing.T) {
	cfg := NewDefaultConfig()
	st := store.NewMemory()
	defer st.Close()

	app := &application{}
	for _, opt := range []Option{WithConfig(cfg), WithStore(st)} {
		opt(app)
	}

	if app.config != cfg {
		t.Error("WithConfig did not set the configuration")
	}
	if app.store != st {
		t.Error("WithStore did not set the store")
	}
}

func TestOpenStore_Memory(t *testing.T) {
	st, err := OpenStore(&StoreConfig{Driver: StoreDriverMemory})
	if err != nil {
		t.Fatalf("open memory store: %v", err)
	}
	st.Close()
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	if _, err := OpenStore(&StoreConfig{Driver: "redis"}); err == nil {
		t.Fatal("unknown driver should fail")
	}
}
