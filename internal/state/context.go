package state

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/spotlesstofu/podman-peerpods/api/v1alpha1"
	"github.com/spotlesstofu/podman-peerpods/internal/naming"
)

// ContextStore is the key/value surface the typed helpers need.
//
// In production, this is satisfied by *Store.
// In tests, this is satisfied by *Store on a temporary database.
type ContextStore interface {
	SetValue(ctx context.Context, namespace, key, value string) error
	Value(ctx context.Context, namespace, key string) (string, error)
}

// InstalledFlag is the peerpodsIsInstalled context value.
type InstalledFlag struct {
	store ContextStore
}

// NewInstalledFlag returns the installed flag kept in store.
func NewInstalledFlag(store ContextStore) *InstalledFlag {
	return &InstalledFlag{store: store}
}

// Set writes the flag.
func (f *InstalledFlag) Set(ctx context.Context, installed bool) error {
	return f.store.SetValue(ctx, naming.ContextNamespace, naming.InstalledKey, strconv.FormatBool(installed))
}

// Get reads the flag. An unset flag reads as false.
func (f *InstalledFlag) Get(ctx context.Context) (bool, error) {
	v, err := f.store.Value(ctx, naming.ContextNamespace, naming.InstalledKey)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	installed, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", naming.InstalledKey, v, err)
	}
	return installed, nil
}

// SaveSession stores the onboarding resource as YAML.
func SaveSession(ctx context.Context, store ContextStore, o *v1alpha1.Onboarding) error {
	data, err := yaml.Marshal(o)
	if err != nil {
		return fmt.Errorf("failed to marshal onboarding session: %w", err)
	}
	return store.SetValue(ctx, naming.ContextNamespace, naming.SessionKey, string(data))
}

// LoadSession returns the last stored onboarding resource, or ErrNotFound
// when none was saved.
func LoadSession(ctx context.Context, store ContextStore) (*v1alpha1.Onboarding, error) {
	data, err := store.Value(ctx, naming.ContextNamespace, naming.SessionKey)
	if err != nil {
		return nil, err
	}
	var o v1alpha1.Onboarding
	if err := yaml.Unmarshal([]byte(data), &o); err != nil {
		return nil, fmt.Errorf("failed to unmarshal onboarding session: %w", err)
	}
	v1alpha1.SetDefaultAPIVersion(&o)
	return &o, nil
}
