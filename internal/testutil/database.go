package testutil

import (
	"context"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/lgrando1/leo-tracker/internal/database"
)

func NewTestDatabase(t *testing.T) *database.Client {
	t.Helper()

	client, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	if err := database.Migrate(context.Background(), client); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}

	t.Cleanup(func() {
		client.Close()
	})

	return client
}

// SaoPaulo is the zone most tests bucket days in.
func SaoPaulo(t *testing.T) *time.Location {
	t.Helper()

	location, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		t.Fatalf("loading location: %v", err)
	}
	return location
}
