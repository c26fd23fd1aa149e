package session

import (
	"strings"
	"testing"
	"time"
)

func TestGenerator_Generate(t *testing.T) {
	g := NewGenerator()

	id, err := g.Generate()
	if err != nil {
		t.Fatalf("Failed to generate session ID: %v", err)
	}
	if id == "" {
		t.Fatal("Generated session ID is empty")
	}

	parts := strings.Split(id, ".")
	if len(parts) != 3 {
		t.Fatalf("Expected 3 parts in session ID, got %d: %s", len(parts), id)
	}
	if parts[0] != idPrefix {
		t.Fatalf("Expected prefix %s, got %s", idPrefix, parts[0])
	}

	if err := g.Validate(id); err != nil {
		t.Errorf("Freshly generated ID fails validation: %v", err)
	}
}

func TestGenerator_Uniqueness(t *testing.T) {
	g := NewGenerator()

	ids := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := g.Generate()
		if err != nil {
			t.Fatalf("Failed to generate session ID %d: %v", i, err)
		}
		if ids[id] {
			t.Fatalf("Duplicate session ID generated: %s", id)
		}
		ids[id] = true
	}
}

func TestGenerator_Validate(t *testing.T) {
	g := NewGenerator()

	tests := []struct {
		name      string
		id        string
		wantError bool
	}{
		{
			name:      "empty ID",
			id:        "",
			wantError: true,
		},
		{
			name:      "too few parts",
			id:        "mcp.123",
			wantError: true,
		},
		{
			name:      "too many parts",
			id:        "mcp.123.abc.def",
			wantError: true,
		},
		{
			name:      "wrong prefix",
			id:        "sess.123.Zm9vYmFyYmF6cXV4Zm9vYmFyYmF6cXV4Zm9vYmFyYmF6",
			wantError: true,
		},
		{
			name:      "non-numeric timestamp",
			id:        "mcp.abc.Zm9vYmFyYmF6cXV4Zm9vYmFyYmF6cXV4Zm9vYmFyYmF6",
			wantError: true,
		},
		{
			name:      "random part too short",
			id:        "mcp.123.abc",
			wantError: true,
		},
		{
			name:      "invalid characters in random part",
			id:        "mcp.123.%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.Validate(tt.id)
			if tt.wantError && err == nil {
				t.Errorf("Expected validation error for %q", tt.id)
			}
			if !tt.wantError && err != nil {
				t.Errorf("Unexpected validation error for %q: %v", tt.id, err)
			}
		})
	}
}

func TestGenerator_IssuedAt(t *testing.T) {
	g := NewGenerator()

	before := time.Now().Add(-time.Second)
	id, err := g.Generate()
	if err != nil {
		t.Fatalf("Failed to generate session ID: %v", err)
	}
	after := time.Now().Add(time.Second)

	issued, err := g.IssuedAt(id)
	if err != nil {
		t.Fatalf("Failed to extract timestamp: %v", err)
	}
	if issued.Before(before) || issued.After(after) {
		t.Errorf("Issued time %v outside expected window [%v, %v]", issued, before, after)
	}
}
