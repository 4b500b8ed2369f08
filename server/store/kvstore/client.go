package kvstore

import (
	"github.com/mattermost/mattermost/server/public/pluginapi"
	"github.com/pkg/errors"
)

const settingsOverrideKey = "settings_override"

// We expose our calls to the KVStore pluginapi methods through this interface for testability and stability.
// This allows us to better control which values are stored with which keys.

type Client struct {
	client *pluginapi.Client
}

func NewKVStore(client *pluginapi.Client) KVStore {
	return Client{
		client: client,
	}
}

func (kv Client) GetSettingsOverride() (*SettingsOverride, error) {
	var override *SettingsOverride
	if err := kv.client.KV.Get(settingsOverrideKey, &override); err != nil {
		return nil, errors.Wrap(err, "failed to get settings override")
	}
	return override, nil
}

func (kv Client) SaveSettingsOverride(override *SettingsOverride) error {
	if override == nil {
		return errors.New("settings override is nil")
	}
	if _, err := kv.client.KV.Set(settingsOverrideKey, override); err != nil {
		return errors.Wrap(err, "failed to save settings override")
	}
	return nil
}

func (kv Client) DeleteSettingsOverride() error {
	if err := kv.client.KV.Delete(settingsOverrideKey); err != nil {
		return errors.Wrap(err, "failed to delete settings override")
	}
	return nil
}
