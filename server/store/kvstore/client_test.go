package kvstore

import (
	"encoding/json"
	"testing"

	"github.com/mattermost/mattermost/server/public/model"
	"github.com/mattermost/mattermost/server/public/plugin/plugintest"
	"github.com/mattermost/mattermost/server/public/pluginapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetSettingsOverride(t *testing.T) {
	t.Run("stored", func(t *testing.T) {
		api := &plugintest.API{}
		defer api.AssertExpectations(t)
		api.On("KVGet", settingsOverrideKey).Return([]byte(`{"prefix":"?","normalUserCharLimit":300}`), nil)

		store := NewKVStore(pluginapi.NewClient(api, nil))
		override, err := store.GetSettingsOverride()
		require.NoError(t, err)
		require.NotNil(t, override)
		assert.Equal(t, "?", override.Prefix)
		assert.Equal(t, 300, override.NormalUserCharLimit)
		assert.Zero(t, override.ManageMessageUserCharLimit)
	})

	t.Run("missing", func(t *testing.T) {
		api := &plugintest.API{}
		api.On("KVGet", settingsOverrideKey).Return(nil, nil)

		store := NewKVStore(pluginapi.NewClient(api, nil))
		override, err := store.GetSettingsOverride()
		require.NoError(t, err)
		assert.Nil(t, override)
	})

	t.Run("app error", func(t *testing.T) {
		api := &plugintest.API{}
		api.On("KVGet", settingsOverrideKey).Return(nil, model.NewAppError("KVGet", "id", nil, "boom", 500))

		store := NewKVStore(pluginapi.NewClient(api, nil))
		_, err := store.GetSettingsOverride()
		assert.Error(t, err)
	})
}

func TestSaveSettingsOverride(t *testing.T) {
	api := &plugintest.API{}
	defer api.AssertExpectations(t)

	var saved []byte
	api.On("KVSetWithOptions", settingsOverrideKey, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(1).([]byte) }).
		Return(true, nil)

	store := NewKVStore(pluginapi.NewClient(api, nil))
	err := store.SaveSettingsOverride(&SettingsOverride{Prefix: "$", ManageMessageUserCharLimit: 9000})
	require.NoError(t, err)

	var decoded SettingsOverride
	require.NoError(t, json.Unmarshal(saved, &decoded))
	assert.Equal(t, SettingsOverride{Prefix: "$", ManageMessageUserCharLimit: 9000}, decoded)
}

func TestSaveNilSettingsOverride(t *testing.T) {
	store := NewKVStore(pluginapi.NewClient(&plugintest.API{}, nil))
	assert.Error(t, store.SaveSettingsOverride(nil))
}

func TestDeleteSettingsOverride(t *testing.T) {
	api := &plugintest.API{}
	defer api.AssertExpectations(t)
	api.On("KVSetWithOptions", settingsOverrideKey, mock.Anything, mock.Anything).Return(true, nil)

	store := NewKVStore(pluginapi.NewClient(api, nil))
	assert.NoError(t, store.DeleteSettingsOverride())
}

func TestSettingsOverrideMerge(t *testing.T) {
	override := SettingsOverride{Prefix: "?", NormalUserCharLimit: 200}
	override.Merge(SettingsOverride{ManageMessageUserCharLimit: 9000})
	assert.Equal(t, SettingsOverride{Prefix: "?", NormalUserCharLimit: 200, ManageMessageUserCharLimit: 9000}, override)

	override.Merge(SettingsOverride{Prefix: "$"})
	assert.Equal(t, SettingsOverride{Prefix: "$", NormalUserCharLimit: 200, ManageMessageUserCharLimit: 9000}, override)
}
