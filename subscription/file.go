package subscription

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

/* FileSource reads subscriptions from a YAML file
 * The file is re-read on every List, so edits apply without a restart
 */

// FileConfig represents the structure of the subscriptions file
type FileConfig struct {
	Webhooks []FileEntry `yaml:"webhooks"`
}

// FileEntry is one webhook in the file, using the registry's field names
type FileEntry struct {
	ID        int               `yaml:"id"`
	Name      string            `yaml:"name"`
	SessionID int               `yaml:"session_id"`
	URL       string            `yaml:"url"`
	Events    []string          `yaml:"events"`
	Headers   map[string]string `yaml:"headers"`
	IsActive  *bool             `yaml:"is_active"` // Default: true
	Options   DeliveryOptions   `yaml:"delivery_options"`
}

type FileSource struct {
	path string
}

// NewFileSource creates a source over the file at path
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// List loads and validates the file
func (f *FileSource) List(ctx context.Context) ([]Subscription, error) {
	return LoadFile(f.path)
}

// LoadFile reads, parses and validates a subscriptions file
func LoadFile(path string) ([]Subscription, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading subscriptions file: %w", err)
	}

	var config FileConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing subscriptions YAML: %w", err)
	}

	subs := make([]Subscription, 0, len(config.Webhooks))
	for i, entry := range config.Webhooks {
		active := true
		if entry.IsActive != nil {
			active = *entry.IsActive
		}
		id := entry.ID
		if id == 0 {
			id = i + 1
		}

		types, opts := ParseTokens(entry.Events)
		if entry.Options.IncludeRequestHeaders {
			opts.IncludeRequestHeaders = true
		}

		sub := Subscription{
			ID:         id,
			Name:       entry.Name,
			SessionID:  entry.SessionID,
			URL:        entry.URL,
			EventTypes: types,
			Options:    opts,
			Headers:    entry.Headers,
			Active:     active,
		}
		if err := sub.Validate(); err != nil {
			return nil, fmt.Errorf("validating subscription: %w", err)
		}
		subs = append(subs, sub)
	}

	return subs, nil
}
