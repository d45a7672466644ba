package redis

import (
	"testing"

	"github.com/travelbookhq/travelbook-gateway/pkg/config"
)

func TestOptionsFromConfig_RequiresTarget(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error when neither url nor address is set")
	}
}

func TestOptionsFromConfig_ParsesURL(t *testing.T) {
	opts, err := optionsFromConfig(config.RedisConfig{URL: "redis://:secret@localhost:6380/2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6380" {
		t.Fatalf("unexpected addr %q", opts.Addr)
	}
	if opts.DB != 2 {
		t.Fatalf("unexpected db %d", opts.DB)
	}
	if opts.Password != "secret" {
		t.Fatalf("unexpected password %q", opts.Password)
	}
}

func TestKeyBuilders(t *testing.T) {
	c := &Client{}

	cases := map[string]string{
		c.TokenKey("s1"):                   "tb:session:token:s1",
		c.CartKey("s1"):                    "tb:session:cart:s1",
		c.WizardKey("s1"):                  "tb:session:wizard:s1",
		c.IdempotencyKey("bookings", "k1"): "tb:idempotency:bookings:k1",
	}
	for got, want := range cases {
		if got != want {
			t.Fatalf("expected key %q, got %q", want, got)
		}
	}
}
