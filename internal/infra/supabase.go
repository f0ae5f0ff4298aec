package infra

import (
	"fmt"

	"github.com/supabase-community/supabase-go"
)

// NewSupabaseClient builds the managed provider client once at startup. The
// returned client is shared by every adapter; nothing holds it globally.
func NewSupabaseClient(url, key string) (*supabase.Client, error) {
	if url == "" || key == "" {
		return nil, fmt.Errorf("supabase: %w", ErrNotConfigured)
	}
	client, err := supabase.NewClient(url, key, nil)
	if err != nil {
		return nil, fmt.Errorf("create supabase client: %w", err)
	}
	return client, nil
}
